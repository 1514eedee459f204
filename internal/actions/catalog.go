package actions

import "github.com/moviops/conductor/internal/agent"

// Catalog returns every action spec, grouped by entity. Page scoping
// mirrors the dashboard: trips and deployments belong to busDashboard,
// stops, paths and routes to manageRoute, and vehicles and drivers are
// reachable from both.
func Catalog() []*agent.ActionSpec {
	var specs []*agent.ActionSpec
	specs = append(specs, vehicleSpecs()...)
	specs = append(specs, driverSpecs()...)
	specs = append(specs, stopSpecs()...)
	specs = append(specs, pathSpecs()...)
	specs = append(specs, routeSpecs()...)
	specs = append(specs, tripSpecs()...)
	specs = append(specs, deploymentSpecs()...)
	return specs
}

// NewRegistry builds the action registry over the full catalog.
func NewRegistry() (*agent.Registry, error) {
	return agent.NewRegistry(Catalog()...)
}
