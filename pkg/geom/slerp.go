package geom

import "math"

// Slerp interpolates from a (t=0) to b (t=1) along the great arc, both
// unit quaternions. The relative rotation d = b*a⁻¹ is raised to the power
// t in closed form and re-applied to a.
//
// The path is not corrected for the double cover: if a.Dot(b) < 0 the
// interpolation takes the long way round. Pass b.Neg() to get the short
// arc.
func Slerp(a, b Quat, t float64) Quat {
	d := b.Mul(a.Conjugate())
	s := d.Vector().Length()
	if s < Tolerance {
		return slerpDegenerate(a, d, t)
	}
	theta := math.Atan2(s, d.W)
	st, ct := math.Sincos(t * theta)
	v := d.Vector().Scale(st / s)
	dt := Quat{W: ct, X: v.X, Y: v.Y, Z: v.Z}
	return dt.Mul(a)
}

// SlerpAxisAngle is Slerp computed through the axis-angle form of the
// relative rotation. It agrees with Slerp to within rounding and shares its
// degenerate cases.
func SlerpAxisAngle(a, b Quat, t float64) Quat {
	d := b.Mul(a.Conjugate())
	angle, axis := d.AxisAngle()
	if angle == 0 {
		return slerpDegenerate(a, d, t)
	}
	return axisAngleQuat(angle*t*Radians, axis).Mul(a)
}

// slerpDegenerate handles d = ±1. For +1 a and b are equal. For -1 b is
// -a, a full turn away; the turn is taken about X so that t=1 lands on b.
func slerpDegenerate(a, d Quat, t float64) Quat {
	if d.W > 0 {
		return a
	}
	return axisAngleQuat(2*math.Pi*t, XAxis).Mul(a)
}
