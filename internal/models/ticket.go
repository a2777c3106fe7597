package models

import "encoding/json"

// TicketPayload is the issue filed in the tracker for one submission
type TicketPayload struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string
}

type issueProject struct {
	Key string `json:"key"`
}

type issueType struct {
	Name string `json:"name"`
}

type issueFields struct {
	Project     issueProject `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	IssueType   issueType    `json:"issuetype"`
}

// MarshalJSON encodes the payload in the create-issue request shape
func (p TicketPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Fields issueFields `json:"fields"`
	}{
		Fields: issueFields{
			Project:     issueProject{Key: p.ProjectKey},
			Summary:     p.Summary,
			Description: p.Description,
			IssueType:   issueType{Name: p.IssueType},
		},
	})
}
