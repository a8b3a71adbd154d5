package auth

// None is an Auth method that always succeeds; used for the in-process
// single-tenant embedding where no identity layer sits in front of Engine.
type None struct{}

// Allowed implements Auth.
func (n *None) Allowed(ctx *RequestContext, permission Permission) error {
	return nil
}
