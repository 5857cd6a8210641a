package employee

import (
	"context"

	"goa.design/cq-runtime/message"
)

type (
	// ExistenceChecker backs CreateEmployeeContext's duplicate check
	// (domain/employee/dedupe.Cache implements it over Redis SETNX).
	ExistenceChecker interface {
		Exists(ctx context.Context, firstName, lastName string) (bool, error)
	}

	// Validator backs employeeCreationAuditor's payload check
	// (domain/employee/validate.Validator implements it over a compiled
	// JSON Schema).
	Validator interface {
		Validate(payload any) error
	}

	// TextGenerator drafts prose from a prompt (domain/employee/modelclient
	// implements it over Anthropic, OpenAI and Bedrock).
	TextGenerator interface {
		Generate(ctx context.Context, prompt string) (string, error)
	}

	// Repo persists a created employee and its generated work email
	// (domain/employee/repo/mongo implements it over mongo-driver).
	Repo interface {
		Save(ctx context.Context, e EmployeeCreated, email string) (string, error)
	}
)

// createEmployeeContext is the CONTEXT actor (spec.md §3 C3, Scenario A
// step 1): it resolves whether an employee with this name already exists
// ahead of the audit step.
func createEmployeeContext(c CreateEmployee, checker ExistenceChecker) (CreateEmployeeContext, error) {
	exists, err := checker.Exists(context.Background(), c.FirstName, c.LastName)
	if err != nil {
		return CreateEmployeeContext{}, err
	}
	return CreateEmployeeContext{Exists: exists}, nil
}

// employeeCreationAuditor is the AUDIT actor (Scenario A step 2, Scenario
// B): it validates the payload shape, then substitutes EmployeeDuplicated
// for CreateEmployee when the context reports a duplicate.
func employeeCreationAuditor(c CreateEmployee, ctx CreateEmployeeContext, v Validator) message.AuditResult {
	if err := v.Validate(c); err != nil {
		return EmployeeRejected{Reason: err.Error()}
	}
	if ctx.Exists {
		return EmployeeDuplicated{FirstName: c.FirstName, LastName: c.LastName}
	}
	return c
}

// createEmployeeUsecase is the USECASE actor (Scenario A step 3): it turns
// an audited CreateEmployee into the EmployeeCreated domain event.
func createEmployeeUsecase(c CreateEmployee) EmployeeCreated {
	return EmployeeCreated{FirstName: c.FirstName, LastName: c.LastName, Supervisor: c.Supervisor}
}

// generateSupervisedEmployeeEmailContext is the CONTEXT actor feeding the
// work-email USECASE its mail domain (Scenario A step 4).
func generateSupervisedEmployeeEmailContext(e EmployeeCreated) GenerateEmployeeEmailContext {
	return GenerateEmployeeEmailContext{MailDomain: "example.com"}
}

// generateWorkEmailUsecase is the USECASE actor drafting the new hire's
// work email address through a TextGenerator (Scenario A step 5, Scenario
// C: dependency resolution).
func generateWorkEmailUsecase(e EmployeeCreated, ctx GenerateEmployeeEmailContext, gen TextGenerator) EmployeeWorkEmailGenerated {
	prompt := "Suggest a professional work email local-part for " + e.FirstName + " " + e.LastName
	local, err := gen.Generate(context.Background(), prompt)
	if err != nil || local == "" {
		// The model client is best-effort: a failed or empty draft
		// falls back to the deterministic first.last convention
		// rather than failing the whole onboarding dispatch.
		local = e.FirstName + "." + e.LastName
	}
	return EmployeeWorkEmailGenerated{Email: local + "@" + ctx.MailDomain}
}

// employeeWriter is the IO-write actor persisting the onboarded employee
// (Scenario A step 6, Scenario D: a missing Repo dependency and no
// configured Resolver/default fails the dispatch).
func employeeWriter(e EmployeeCreated, email EmployeeWorkEmailGenerated, repo Repo) (EmployeeStored, error) {
	id, err := repo.Save(context.Background(), e, email.Email)
	if err != nil {
		return EmployeeStored{}, err
	}
	return EmployeeStored{ID: id}, nil
}
