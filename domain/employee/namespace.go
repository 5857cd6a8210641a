package employee

import "goa.design/cq-runtime/actor"

// namespace bulk-registers every actor in this package in one call,
// standing in for the original source's register_module package walk
// (spec.md §9 design note (a)/(b), Scenario E).
type namespace struct{}

// Namespace is the package's actor.Namespace, registered via
// actor.RegisterNamespace in cmd/demo.
var Namespace actor.Namespace = namespace{}

func (namespace) Actors() []any {
	return []any{
		createEmployeeContext,
		employeeCreationAuditor,
		createEmployeeUsecase,
		generateSupervisedEmployeeEmailContext,
		generateWorkEmailUsecase,
		employeeWriter,
	}
}

func (namespace) Children() []actor.Namespace { return nil }
