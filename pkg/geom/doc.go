// Package geom provides the value types of the gimbal math library:
// vectors, quaternions, rotation matrices and composite transforms.
//
// All types are immutable values; every operation returns a new value.
// Angles are in degrees at the API boundary.
//
// Matrix convention: a Matrix4 stores four vectors F, U, R, W. Multiplying
// a matrix by a vector is defined through the transpose, so each output
// component is the dot product of the corresponding column of the stored
// rows with the operand. Put differently, F, U and R are the images of the
// X, Y and Z axes and W carries the translation:
//
//	m.MulVec(v) == F*v.X + U*v.Y + R*v.Z + W*v.W
//
// Every matrix constructor in this package (Scale, Translation, the
// rotations, TRS and SRT) follows that convention.
package geom
