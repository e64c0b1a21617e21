// Package proxy builds calls to the cluster CRUD functions and runs them
// through a Caller.
//
// Arguments are encoded through a mapper.Registry in the layout the CRUD
// module expects, [space, payload, options], and results are decoded with
// package call:
//
//	op, err := proxy.Insert(reg, "users", []any{1, "alice"}, proxy.NewOptions().WithTimeout(500))
//	user, err := proxy.Execute(ctx, conn, reg, op, call.SingleValue[User]())
package proxy
