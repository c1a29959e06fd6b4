package fem

// FaceIsConvective reports whether every corner node of the face carries the
// convective flag. convective is indexed by local element node.
//
// A face with only some convective corners is treated as interior and gets no
// convection term. This is deliberate and silent: a mixed face usually sits on
// the border between a convective and an insulated region.
func FaceIsConvective(fr *FaceReference, convective []bool) bool {
	for _, l := range fr.Local {
		if !convective[l] {
			return false
		}
	}
	return true
}

// AddConvection integrates the Robin boundary terms over every fully
// convective face of the element and adds them to em:
//
//	Hbc += alpha Nf Nf^T w detJs
//	Pbc += alpha Tenv Nf w detJs
//
// The face terms are scattered at the face's local node indices.
func (re *ReferenceElement) AddConvection(em *ElementMatrices, coords [][3]float64, convective []bool,
	alpha, tEnv float64) {
	if alpha == 0 {
		return
	}
	for f := range re.Faces {
		fr := &re.Faces[f]
		if !FaceIsConvective(fr, convective) {
			continue
		}
		em.Faces++
		for p, w := range fr.Weights {
			var (
				wd = alpha * w * fr.SurfaceJacobian(p, coords)
				N  = fr.N[p]
			)
			for a, la := range fr.Local {
				for b, lb := range fr.Local {
					em.H.Set(la, lb, em.H.At(la, lb)+wd*N[a]*N[b])
				}
				em.P[la] += wd * tEnv * N[a]
			}
		}
	}
}
