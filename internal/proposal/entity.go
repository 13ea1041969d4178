package proposal

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/proposals-lambda/internal/utils"
	"gorm.io/gorm"
)

const ticketCounter = "ticketNums"

type Proposal struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id" swaggertype:"string" format:"uuid"`
	Ticket     int64      `gorm:"not null;uniqueIndex" json:"ticket"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user" swaggertype:"string" format:"uuid"`
	Title      string     `gorm:"not null" json:"title"`
	TitleKey   string     `gorm:"column:title_key;not null;uniqueIndex" json:"-"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Items      string     `gorm:"type:text;not null" json:"items"`
	Cost       float64    `gorm:"not null" json:"cost"`
	StartDate  *util.Date `json:"startDate,omitempty" swaggertype:"string" format:"date"`
	Remark     *string    `gorm:"type:text" json:"remark,omitempty"`
	ProposedTo string     `gorm:"column:proposed_to;not null" json:"proposedTo"`
	ProposedBy string     `gorm:"column:proposed_by;not null" json:"proposedBy"`
	Completed  bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Proposal) TableName() string {
	return "proposals"
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Counter is a named sequence. The ticket sequence lives in the row ticketNums.
type Counter struct {
	ID  string `gorm:"primaryKey;size:64"`
	Seq int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string {
	return "counters"
}
