package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&activityRecord{},
		&reviewRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                 string         `gorm:"primaryKey;column:id;type:varchar(64)"`
	Email              string         `gorm:"column:email;index:idx_orders_tracking"`
	FirstName          string         `gorm:"column:first_name"`
	LastName           string         `gorm:"column:last_name"`
	Address            string         `gorm:"column:address"`
	Apartment          string         `gorm:"column:apartment"`
	City               string         `gorm:"column:city"`
	State              string         `gorm:"column:state"`
	Zip                string         `gorm:"column:zip"`
	Phone              string         `gorm:"column:phone"`
	Country            string         `gorm:"column:country"`
	Items              datatypes.JSON `gorm:"column:items;type:jsonb"`
	ProductIDs         pq.StringArray `gorm:"column:product_ids;type:text[]"`
	Total              float64        `gorm:"column:total;type:numeric(12,2)"`
	Shipping           float64        `gorm:"column:shipping;type:numeric(12,2)"`
	Tax                float64        `gorm:"column:tax;type:numeric(12,2)"`
	TransactionID      string         `gorm:"column:transaction_id;uniqueIndex"`
	Status             string         `gorm:"column:status;type:varchar(32);index"`
	CancellationReason string         `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time      `gorm:"column:created_at;index"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Activity schema mirrors the activity Postgres adapter.
type activityRecord struct {
	ID          string            `gorm:"primaryKey;column:id;type:varchar(64)"`
	Type        string            `gorm:"column:type;type:varchar(32);index"`
	Description string            `gorm:"column:description"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`
	UserID      string            `gorm:"column:user_id;index"`
	UserName    string            `gorm:"column:user_name"`
	IPAddress   string            `gorm:"column:ip_address"`
	UserAgent   string            `gorm:"column:user_agent"`
	CreatedAt   time.Time         `gorm:"column:created_at;index"`
}

func (activityRecord) TableName() string { return "activities" }

// Review schema mirrors the reviews Postgres adapter.
type reviewRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	ProductID string    `gorm:"column:product_id;index:idx_reviews_product_created"`
	OrderID   string    `gorm:"column:order_id;index"`
	Name      string    `gorm:"column:name"`
	Rating    int       `gorm:"column:rating"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_reviews_product_created"`
}

func (reviewRecord) TableName() string { return "reviews" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Name         string    `gorm:"column:name"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16);index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:512"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
