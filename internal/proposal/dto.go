package proposal

import (
	"bytes"

	util "github.com/saulo-duarte/proposals-lambda/internal/utils"
)

// StrictBool is set only by a JSON true or false literal. Strings, numbers
// and null leave it invalid.
type StrictBool struct {
	Value bool
	Valid bool
}

func Bool(v bool) StrictBool {
	return StrictBool{Value: v, Valid: true}
}

func (b *StrictBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*b = Bool(true)
	case "false":
		*b = Bool(false)
	default:
		*b = StrictBool{}
	}
	return nil
}

type CreateProposalDTO struct {
	User       string     `json:"user"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Items      string     `json:"items"`
	Cost       float64    `json:"cost"`
	StartDate  *util.Date `json:"startDate" swaggertype:"string" format:"date"`
	Remark     *string    `json:"remark"`
	ProposedTo string     `json:"proposedTo"`
	ProposedBy string     `json:"proposedBy"`
}

// Validate treats a zero cost as absent.
func (d CreateProposalDTO) Validate() error {
	if d.User == "" || d.Title == "" || d.Text == "" || d.Items == "" ||
		d.Cost == 0 || d.ProposedTo == "" || d.ProposedBy == "" {
		return ErrMissingFields
	}
	return nil
}

type UpdateProposalDTO struct {
	ID         string     `json:"id"`
	User       string     `json:"user"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Items      string     `json:"items"`
	Cost       float64    `json:"cost"`
	StartDate  *util.Date `json:"startDate" swaggertype:"string" format:"date"`
	Remark     *string    `json:"remark"`
	Completed  StrictBool `json:"completed" swaggertype:"boolean"`
	ProposedBy string     `json:"proposedBy"`
	ProposedTo string     `json:"proposedTo"`
}

func (d UpdateProposalDTO) Validate() error {
	if d.ID == "" || d.User == "" || d.Title == "" || d.Text == "" || d.Items == "" ||
		d.Cost == 0 || d.ProposedBy == "" || d.ProposedTo == "" || !d.Completed.Valid {
		return ErrMissingFields
	}
	return nil
}

type DeleteProposalDTO struct {
	ID string `json:"id"`
}

func (d DeleteProposalDTO) Validate() error {
	if d.ID == "" {
		return ErrMissingFields
	}
	return nil
}

// ProposalResponse is a listed proposal enriched with its owner's username.
type ProposalResponse struct {
	Proposal
	Username string `json:"username"`
}
