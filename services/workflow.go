package services

import "pet-adoption-api/models"

// Workflow selects between the adoption and foster application flows. Both
// behave identically apart from their table, wording and the pet status
// reached on approval.
type Workflow string

const (
	AdoptionWorkflow Workflow = "adoption"
	FosterWorkflow   Workflow = "foster"
)

func (w Workflow) Valid() bool {
	return w == AdoptionWorkflow || w == FosterWorkflow
}

// Table is the application table of the workflow.
func (w Workflow) Table() string {
	if w == FosterWorkflow {
		return models.FosterApplicationsTable
	}
	return models.AdoptionApplicationsTable
}

// PetStatusOnApproval is the adoption_status a pet takes when an application
// of this workflow is approved.
func (w Workflow) PetStatusOnApproval() string {
	if w == FosterWorkflow {
		return models.PetFostered
	}
	return models.PetAdopted
}

// NotificationType builds the type tag used for client-side routing,
// e.g. "adoption_application_approved".
func (w Workflow) NotificationType(event string) string {
	return string(w) + "_application_" + event
}
