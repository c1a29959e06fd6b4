package mesh

import (
	"fmt"

	"github.com/notargets/thermofem/utils"
)

// Partition groups elements into buckets that are processed by one goroutine each
type Partition struct {
	EToP    []int   // Element to bucket
	Buckets [][]int // Bucket to element indices, ascending
}

// PartitionElements splits the elements into nparts buckets. With the metis
// build tag the element dual graph is partitioned by METIS, otherwise the
// elements are split into contiguous blocks.
func PartitionElements(g *Grid, nparts int) (p *Partition, err error) {
	var (
		ne   = g.NumElements()
		etop []int
	)
	if nparts < 1 {
		return nil, fmt.Errorf("number of partitions must be positive, have %d", nparts)
	}
	if nparts > ne {
		nparts = ne
	}
	if nparts == 1 {
		etop = make([]int, ne)
	} else if etop, err = partitionGraph(g, nparts); err != nil {
		return
	}
	p = &Partition{
		EToP:    etop,
		Buckets: make([][]int, nparts),
	}
	for k, bn := range etop {
		p.Buckets[bn] = append(p.Buckets[bn], k)
	}
	return
}

func blockPartition(ne, nparts int) (etop []int) {
	pm := utils.NewPartitionMap(nparts, ne)
	etop = make([]int, ne)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		for k := kMin; k < kMax; k++ {
			etop[k] = bn
		}
	}
	return
}
