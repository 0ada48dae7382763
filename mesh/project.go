package mesh

import "gonum.org/v1/gonum/mat"

// StackConstr converts the two-sided linear constraint system
// "low <= Ax <= up" into single-sided form "A'x <= b'" by stacking A on top
// of -A.  ranges holds up[i]-low[i] for each original row, useful for
// normalizing violation magnitudes.
func StackConstr(low, A, up *mat.Dense) (stackA, b *mat.Dense, ranges []float64) {
	m, n := A.Dims()

	stackA = mat.NewDense(2*m, n, nil)
	b = mat.NewDense(2*m, 1, nil)
	ranges = make([]float64, m, 2*m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			stackA.Set(i, j, A.At(i, j))
			stackA.Set(m+i, j, -A.At(i, j))
		}
		b.SetRow(i, []float64{up.At(i, 0)})
		b.SetRow(m+i, []float64{-low.At(i, 0)})
		ranges[i] = up.At(i, 0) - low.At(i, 0)
	}
	ranges = append(ranges, ranges...)

	return stackA, b, ranges
}

// OrthoProj computes the orthogonal projection of x0 onto the affine
// subspace defined by Ax=b which is the intersection of affine hyperplanes
// that constitute the rows of A with associated shifts in b.  The equation
// is:
//
//	proj = [I - A^T * (A * A^T)^-1 * A]*x0 + A^T * (A * A^T)^-1 * b
//
// where x0 is the point being projected and I is the identity matrix.  A is
// an m by n matrix where m <= n.  If m == n, the returned result is the
// solution to the system A*x0=b.
func OrthoProj(x0 []float64, A, b *mat.Dense) []float64 {
	x := mat.NewDense(len(x0), 1, append([]float64{}, x0...))

	m, n := A.Dims()
	if m == n {
		var proj mat.Dense
		if err := proj.Solve(A, b); err != nil {
			panic(err.Error())
		}
		return mat.Col(nil, 0, &proj)
	}

	var AAtrans mat.Dense
	AAtrans.Mul(A, A.T())

	// B = A^T * (A*A^T)^-1
	var inv mat.Dense
	if err := inv.Inverse(&AAtrans); err != nil {
		panic(err.Error())
	}
	var B mat.Dense
	B.Mul(A.T(), &inv)

	nb, _ := B.Dims()

	var tmp mat.Dense
	tmp.Mul(&B, A)
	tmp.Sub(eye(nb), &tmp)
	var proj mat.Dense
	proj.Mul(&tmp, x)

	var tmp2 mat.Dense
	tmp2.Mul(&B, b)
	proj.Add(&proj, &tmp2)

	return mat.Col(nil, 0, &proj)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// NearestFeasible returns the nearest point to x0 that doesn't violate
// constraints in the equation Ax <= b.  It repeatedly projects onto the most
// violated constraint, accumulating violated rows until none remain.
func NearestFeasible(x0 []float64, A, b *mat.Dense) []float64 {
	proj := x0
	var badA *mat.Dense
	var badb *mat.Dense
	for {
		Aviol, bviol := mostviolated(proj, A, b)

		if Aviol == nil { // projection is complete
			break
		} else if badA == nil {
			badA, badb = Aviol, bviol
		} else {
			tmpA, tmpb := badA, badb
			badA, badb = &mat.Dense{}, &mat.Dense{}
			badA.Stack(tmpA, Aviol)
			badb.Stack(tmpb, bviol)
		}

		proj = OrthoProj(x0, badA, badb)

		// we have projected to a single point
		if m, n := badA.Dims(); m == n {
			break
		}
	}
	return proj
}

// mostviolated returns the most violated constraint in the system Ax <= b.
// Aviol and bviol each have one row and len(x0) columns.  It returns
// nil, nil if x0 violates no constraints.
func mostviolated(x0 []float64, A, b *mat.Dense) (Aviol, bviol *mat.Dense) {
	eps := 1e-10

	xm := mat.NewDense(len(x0), 1, append([]float64{}, x0...))
	var ax mat.Dense
	ax.Mul(A, xm)

	m, _ := ax.Dims()
	worst := eps
	worstRow := -1
	for i := 0; i < m; i++ {
		if diff := ax.At(i, 0) - b.At(i, 0); diff > worst {
			worst = diff
			worstRow = i
		}
	}
	if worstRow == -1 {
		return nil, nil
	}

	return mat.NewDense(1, len(x0), mat.Row(nil, worstRow, A)),
		mat.NewDense(1, 1, mat.Row(nil, worstRow, b))
}
