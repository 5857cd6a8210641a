// Package employee is the reference domain: a complete, runnable
// implementation of spec.md §8 Scenario A-E, wired to the concrete
// third-party adapters under repo/mongo, dedupe, validate and
// modelclient.
package employee

import "goa.design/cq-runtime/message"

// CreateEmployee is the seed Command of the onboarding dispatch (Scenario
// A, B, D).
type CreateEmployee struct {
	message.CommandBase
	FirstName  string
	LastName   string
	Supervisor string
}

// CreateEmployeeContext is the CONTEXT actor's output: whether an employee
// with this name already exists, computed ahead of the audit step.
type CreateEmployeeContext struct {
	message.ContextBase
	Exists bool
}

// EmployeeDuplicated is the terminal Error an AUDIT actor substitutes for
// CreateEmployee when the context reports a duplicate (Scenario B). The
// embedded message.ErrorEnvelope supplies the Error and AuditResult markers.
type EmployeeDuplicated struct {
	message.ErrorEnvelope
	FirstName string
	LastName  string
}

// Error satisfies the standard error interface so EmployeeDuplicated can
// also be wrapped by errors.Is/As machinery where convenient.
func (e EmployeeDuplicated) Error() string {
	return "employee already exists: " + e.FirstName + " " + e.LastName
}

// EmployeeRejected is the terminal Error an AUDIT actor substitutes for
// CreateEmployee when the payload fails schema validation. The embedded
// message.ErrorEnvelope supplies the Error and AuditResult markers.
type EmployeeRejected struct {
	message.ErrorEnvelope
	Reason string
}

func (e EmployeeRejected) Error() string { return "employee payload rejected: " + e.Reason }

// EmployeeCreated is the BusinessDomainEvent a USECASE actor emits once the
// audit step clears CreateEmployee (Scenario A).
type EmployeeCreated struct {
	message.BusinessDomainEventBase
	FirstName  string
	LastName   string
	Supervisor string
}

// GenerateEmployeeEmailContext carries the resolved mail domain for the
// supervisor's organization, consumed by the work-email USECASE actor.
type GenerateEmployeeEmailContext struct {
	message.ContextBase
	MailDomain string
}

// EmployeeWorkEmailGenerated is the BusinessDomainEvent produced once the
// model client drafts a work email address for the new hire.
type EmployeeWorkEmailGenerated struct {
	message.BusinessDomainEventBase
	Email string
}

// EmployeeStored is the terminal WriteEvent emitted once the employee and
// its generated email have been persisted (Scenario A, C).
type EmployeeStored struct {
	message.WriteEventBase
	ID string
}
