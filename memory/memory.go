// Package memory builds a ready-to-use mediator over a private in-memory container.
package memory

import (
	"fmt"

	"github.com/next-trace/scg-mediator/dispatcher"
	"github.com/next-trace/scg-mediator/locator"
)

// New constructs a Mediator over the modules picked by args (see dispatcher.AddMediator)
// and returns it with the sealed provider it resolves from.
func New(args ...any) (*dispatcher.Mediator, *locator.Provider, error) {
	return With(dispatcher.Registrar{}, args...)
}

// With is like New but registers through reg.
func With(reg dispatcher.Registrar, args ...any) (*dispatcher.Mediator, *locator.Provider, error) {
	c := locator.NewCollection()
	if err := reg.AddMediator(c, args...); err != nil {
		return nil, nil, err
	}

	p := c.Build()

	m, err := locator.Get[*dispatcher.Mediator](p)
	if err != nil {
		return nil, nil, fmt.Errorf("memory mediator: %w", err)
	}

	return m, p, nil
}
