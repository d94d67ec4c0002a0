// Package auth implements registration, login and the session lifecycle.
//
// Business failures (short input, taken username, unknown user, wrong
// password, rejected write) are reported in-band as FieldErrors inside a
// Result. Only unexpected infrastructure failures are returned as errors.
package auth
