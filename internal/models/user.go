package models

type User struct {
	BaseModel
	Username       string   `gorm:"uniqueIndex;not null"`
	Email          string   `gorm:"uniqueIndex;not null"`
	PasswordHash   string   `gorm:"not null"`
	Role           UserRole `gorm:"type:varchar(20);not null;default:'reader'"`
	FirstName      string
	LastName       string
	Bio            string
	ProfilePicture string

	// Reader-only fields
	SubscribedPublishers  []Publisher `gorm:"many2many:publisher_subscriptions"`
	SubscribedJournalists []User      `gorm:"many2many:journalist_subscriptions;joinForeignKey:SubscriberID;joinReferences:JournalistID"`

	// Journalist-only field: staff assignment to a publisher
	PublisherID *string
	Publisher   *Publisher `gorm:"foreignKey:PublisherID"`

	Groups []Group `gorm:"many2many:user_groups"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	return u.Username
}

func (u *User) IsJournalist() bool { return u.Role == UserRoleJournalist }
func (u *User) IsEditor() bool     { return u.Role == UserRoleEditor }
func (u *User) IsReader() bool     { return u.Role == UserRoleReader }
