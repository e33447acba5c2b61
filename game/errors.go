package game

const (
	ErrorUnknownBody             = "intent for unknown body %d dropped"
	ErrorMissingController       = "intent %s for body %d dropped: body has no controller configuration"
	ErrorUnknownIntent           = "unknown intent action %d for body %d"
	ErrorInvalidTimestep         = "timestep must be positive, got %v"
	ErrorDuplicateBody           = "body %d already registered"
	ErrorNilCollider             = "body %d has an empty collider"
	ErrorControllerNotGroundable = "controller body %d is not groundable; walk and jump will never apply"
)
