package assert

import "github.com/oomph-ac/kinematic/oerror"

// IsTrue panics with an *oerror.Error when ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
