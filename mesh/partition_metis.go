//go:build metis

package mesh

import (
	"fmt"
	"log"

	metis "github.com/notargets/go-metis"
)

// partitionGraph partitions the element dual graph, minimizing the number of
// nodes shared between buckets. Weights are the face node counts.
func partitionGraph(g *Grid, nparts int) (etop []int, err error) {
	if g.EToE == nil {
		g.BuildConnectivity()
	}
	var (
		ne     = g.NumElements()
		xadj   = make([]int32, ne+1)
		adjncy []int32
		adjwgt []int32
		faces  = g.Kind.Faces()
	)
	for k := 0; k < ne; k++ {
		for lf, nbr := range g.EToE[k] {
			if nbr >= 0 && nbr != k {
				adjncy = append(adjncy, int32(nbr))
				adjwgt = append(adjwgt, int32(len(faces[lf])))
			}
		}
		xadj[k+1] = int32(len(adjncy))
	}

	opts := make([]int32, metis.NoOptions)
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	opts[metis.OptionObjType] = metis.ObjTypeVol
	ubvec := []float32{1.05}

	part, objval, err := metis.PartGraphKwayWeighted(
		xadj, adjncy, nil, adjwgt,
		int32(nparts), nil, ubvec, opts,
	)
	if err != nil {
		log.Printf("METIS partitioning failed (%v), using contiguous blocks", err)
		return blockPartition(ne, nparts), nil
	}
	log.Printf("Partitioned %d elements into %d parts, communication volume %d",
		ne, nparts, objval)
	etop = make([]int, ne)
	for k := range etop {
		etop[k] = int(part[k])
	}
	return
}
