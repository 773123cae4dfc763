/*
Package dispatcher implements the mediator: Send routes a request to its single handler,
Publish fans a notification out to every handler bound to its type.

Handlers are resolved from a mediator.Locator on every call. AddMediator scans the
selected modules and registers the Mediator together with every discovered handler
into a container:

	c := locator.NewCollection()
	if err := dispatcher.AddMediator(c); err != nil {
		return err
	}

	m := locator.MustGet[*dispatcher.Mediator](c.Build())
	out, err := dispatcher.Send[string](ctx, m, Echo{Text: "hi"})
*/
package dispatcher
