package fem

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/types"
	"github.com/notargets/thermofem/utils"
)

// System is the assembled global state of a run. Indices are 0-based, node
// id - 1.
type System struct {
	N         int
	H, C      utils.CSR // H includes Hbc
	LHS       utils.CSR // H + C/dt, before Dirichlet rows are replaced
	P         []float64 // P includes Pbc
	Dirichlet []int
	Fixed     []bool // Fixed[i] is true for Dirichlet nodes

	Volume          float64 // Sum of element volumes
	Power           float64 // Integral of the heat source
	ConvectiveFaces int
	Partitions      int
}

// Assemble computes the element contributions in parallel, one goroutine per
// element bucket, and reduces them into the global sparse matrices after all
// workers are done. The reduction visits elements in index order, so the
// result does not depend on the number of workers.
func Assemble(g *mesh.Grid, re *ReferenceElement, p Parameters) (sys *System, err error) {
	if err = g.Validate(); err != nil {
		return
	}
	if re.Kind != g.Kind {
		return nil, fmt.Errorf("reference element %s does not match grid of %s", re.Kind, g.Kind)
	}
	var (
		ne     = g.NumElements()
		nn     = g.NumNodes()
		np     = utils.ParallelDegree(p.ParallelDegree, ne)
		locals = make([]*ElementMatrices, ne)
		part   *mesh.Partition
	)
	if part, err = mesh.PartitionElements(g, np); err != nil {
		return
	}
	var (
		wg   = sync.WaitGroup{}
		errs = make([]error, len(part.Buckets))
	)
	for bn, bucket := range part.Buckets {
		wg.Add(1)
		go func(bn int, bucket []int) {
			defer wg.Done()
			var (
				ws         = re.newScratch()
				convective = make([]bool, re.Np)
			)
			for _, k := range bucket {
				el := g.Elements[k]
				g.ElementCoordinates(k, ws.coords)
				em, err := re.elementMatrices(k, el.Material, ws)
				if err != nil {
					errs[bn] = err
					return
				}
				for i, id := range el.Nodes {
					convective[i] = g.Nodes[id-1].Convective
				}
				re.AddConvection(em, ws.coords, convective, p.Alpha, p.AmbientTemperature)
				locals[k] = em
			}
		}(bn, bucket)
	}
	wg.Wait()
	if err = firstElementError(errs); err != nil {
		return
	}

	sys = &System{
		N:          nn,
		P:          make([]float64, nn),
		Fixed:      make([]bool, nn),
		Partitions: len(part.Buckets),
	}
	var (
		H, C, LHS = utils.NewDOK(nn, nn), utils.NewDOK(nn, nn), utils.NewDOK(nn, nn)
		oodt      = 1 / p.StepTime
	)
	for k, em := range locals {
		nodes := g.Elements[k].Nodes
		for a, ia := range nodes {
			row := ia - 1
			for b, ib := range nodes {
				h, c := em.H.At(a, b), em.C.At(a, b)
				H.Add(row, ib-1, h)
				C.Add(row, ib-1, c)
				LHS.Add(row, ib-1, h+c*oodt)
			}
			sys.P[row] += em.P[a]
		}
		sys.Volume += em.Volume
		sys.Power += g.Elements[k].Q * em.Volume
		sys.ConvectiveFaces += em.Faces
	}
	H.SetReadOnly("H")
	C.SetReadOnly("C")
	sys.H, sys.C, sys.LHS = H.ToCSR(), C.ToCSR(), LHS.ToCSR()
	for i, n := range g.Nodes {
		if n.Dirichlet {
			sys.Fixed[i] = true
			sys.Dirichlet = append(sys.Dirichlet, i)
		}
	}
	return
}

// firstElementError picks the failure with the lowest element index so the
// reported error does not depend on goroutine scheduling
func firstElementError(errs []error) (first error) {
	firstElem := -1
	for _, err := range errs {
		if err == nil {
			continue
		}
		k := -1
		var mie *types.MeshIntegrityError
		if errors.As(err, &mie) {
			k = mie.Element
		}
		if first == nil || (k >= 0 && (firstElem < 0 || k < firstElem)) {
			first, firstElem = err, k
		}
	}
	return
}
