package workflow

import (
	"context"

	"github.com/moritzschallercs50/FrameAgent-Studio/event"
)

// Condition determines if a route should be taken.
type Condition func(ctx context.Context, state *State) bool

// Route represents a conditional path in a router.
type Route struct {
	Name      string
	Condition Condition
	Step      Step
}

// Router selects and executes a step based on conditions.
type Router struct {
	name         string
	routes       []Route
	defaultRoute Step
}

// NewRouter creates a conditional router.
// Routes are evaluated in order; first match wins.
// Default route is used if no conditions match (can be nil).
func NewRouter(name string, routes []Route, defaultRoute Step) *Router {
	return &Router{
		name:         name,
		routes:       routes,
		defaultRoute: defaultRoute,
	}
}

// Name returns the router name.
func (r *Router) Name() string { return r.name }

// Run evaluates conditions and executes the matching step.
func (r *Router) Run(ctx context.Context, state *State, opts ...Option) (*StepResult, error) {
	options := ApplyOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	// Find matching route
	var selectedStep Step
	var selectedName string

	for _, route := range r.routes {
		if route.Condition(ctx, state) {
			selectedStep = route.Step
			selectedName = route.Name
			break
		}
	}

	if selectedStep == nil {
		if r.defaultRoute != nil {
			selectedStep = r.defaultRoute
			selectedName = "default"
		} else {
			return nil, ErrNoRouteMatched
		}
	}

	event.Emit(options.Events, event.Event{
		Type:      event.RouteSelected,
		StepName:  r.name,
		RouteName: selectedName,
	})

	// Store selected route in state
	state.Set(r.name+"_route", selectedName)

	return selectedStep.Run(ctx, state, opts...)
}
