package models

type UserRole string
type ArticleStatus string
type NotificationType string

const (
	UserRoleReader     UserRole = "reader"
	UserRoleJournalist UserRole = "journalist"
	UserRoleEditor     UserRole = "editor"

	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPending   ArticleStatus = "pending"
	ArticleStatusApproved  ArticleStatus = "approved"
	ArticleStatusRejected  ArticleStatus = "rejected"
	ArticleStatusPublished ArticleStatus = "published"

	NotificationTypePublisher  NotificationType = "publisher"
	NotificationTypeJournalist NotificationType = "journalist"
	NotificationTypeGeneral    NotificationType = "general"
)

// Group names tied to roles. Permission sets are synced by UserService.
const (
	GroupReaders     = "Readers"
	GroupJournalists = "Journalists"
	GroupEditors     = "Editors"
)
