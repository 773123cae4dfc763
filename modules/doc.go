/*
Package modules names the units of code that contribute handlers and decides which of
them a registration scans.

A Module is a named list of registry components. Packages usually declare one and load
it into the process inventory from init, the way database/sql drivers register:

	var Module = modules.New("acme/users",
		registry.Handler[GetUser, User](NewGetUserHandler),
	)

	func init() { modules.MustLoad(Module) }

A Resolver turns a Selector into the concrete set of modules to scan.
*/
package modules
