package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/email"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
)

// In-memory repository fakes. They implement just enough of the real
// behavior for the service-level contracts under test.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(userID string, fields map[string]interface{}) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) FindByRole(role models.UserRole, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	users, _ := r.FindByRole(role, 0, 0)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) CountAll() (int64, error) { return int64(len(r.users)), nil }

func (r *fakeUserRepo) SaveRoleState(userID string, role models.UserRole, clearPublisher, clearSubscriptions bool) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	if clearPublisher {
		u.PublisherID = nil
		u.Publisher = nil
	}
	if clearSubscriptions {
		u.SubscribedPublishers = nil
		u.SubscribedJournalists = nil
	}
	return nil
}

func (r *fakeUserRepo) ReplaceGroups(userID string, groups []models.Group) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Groups = groups
	return nil
}

func (r *fakeUserRepo) FindGroupByName(name string) (*models.Group, error) {
	return nil, repositories.ErrGroupNotFound
}

func (r *fakeUserRepo) UpsertGroup(group *models.Group) error { return nil }

type fakeArticleRepo struct {
	articles map[string]*models.Article
	// stateWrites counts SetApprovalState calls per article.
	stateWrites map[string]int
}

func newFakeArticleRepo(articles ...*models.Article) *fakeArticleRepo {
	r := &fakeArticleRepo{
		articles:    make(map[string]*models.Article),
		stateWrites: make(map[string]int),
	}
	for _, a := range articles {
		r.articles[a.ID] = a
	}
	return r
}

func (r *fakeArticleRepo) FindByID(id string) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, repositories.ErrArticleNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeArticleRepo) FindBySlug(slug string) (*models.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrArticleNotFound
}

func (r *fakeArticleRepo) Create(article *models.Article) error {
	if article.ID == "" {
		article.ID = fmt.Sprintf("article-%d", len(r.articles)+1)
	}
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) Update(article *models.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return repositories.ErrArticleNotFound
	}
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) Delete(id string) error {
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) FindWithFilter(criteria repositories.ArticleFilter) ([]models.Article, int64, error) {
	var out []models.Article
	for _, a := range r.articles {
		if criteria.ApprovedOnly && !a.IsApproved {
			continue
		}
		if criteria.Status != "" && a.Status != criteria.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) IncrementViews(id string) error {
	if a, ok := r.articles[id]; ok {
		a.ViewsCount++
	}
	return nil
}

// SetApprovalState applies the same field map the real implementation
// writes in one UPDATE.
func (r *fakeArticleRepo) SetApprovalState(id string, fields map[string]interface{}) error {
	a, ok := r.articles[id]
	if !ok {
		return repositories.ErrArticleNotFound
	}
	r.stateWrites[id]++

	if v, ok := fields["status"]; ok {
		a.Status = v.(models.ArticleStatus)
	}
	if v, ok := fields["is_approved"]; ok {
		a.IsApproved = v.(bool)
	}
	if v, ok := fields["approved_by_id"]; ok {
		if v == nil {
			a.ApprovedByID = nil
		} else {
			id := v.(string)
			a.ApprovedByID = &id
		}
	}
	if v, ok := fields["approved_at"]; ok {
		if v == nil {
			a.ApprovedAt = nil
		} else {
			at := v.(time.Time)
			a.ApprovedAt = &at
		}
	}
	if v, ok := fields["rejection_reason"]; ok {
		a.RejectionReason = v.(string)
	}
	if v, ok := fields["published_at"]; ok {
		if v == nil {
			a.PublishedAt = nil
		} else {
			at := v.(time.Time)
			a.PublishedAt = &at
		}
	}
	return nil
}

func (r *fakeArticleRepo) CountByStatus(status models.ArticleStatus) (int64, error) {
	var count int64
	for _, a := range r.articles {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeArticleRepo) ApprovalStats(editorID string) (*repositories.ApprovalStats, error) {
	return &repositories.ApprovalStats{}, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	seq           int64
	notifications map[int64]*models.Notification
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[int64]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	notification.ID = r.seq
	if notification.ReadToken == "" {
		notification.ReadToken = fmt.Sprintf("token-%d", r.seq)
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) FindByID(id int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) FindByReadToken(token string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ReadToken == token {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindByRecipient(recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(recipientID string) (int64, error) {
	unread, _ := r.FindByRecipient(recipientID, true, 0, 0)
	return int64(len(unread)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) RecordEmailOpen(id int64, openedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	if n.EmailOpenedAt == nil {
		n.EmailOpenedAt = &openedAt
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, n := range r.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(r.notifications, id)
			removed++
		}
	}
	return removed, nil
}

type fakeSubscriptionRepo struct {
	publisherSubs  map[string][]models.User
	journalistSubs map[string][]models.User
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		publisherSubs:  make(map[string][]models.User),
		journalistSubs: make(map[string][]models.User),
	}
}

func (r *fakeSubscriptionRepo) SubscribeToPublisher(userID, publisherID string) error {
	r.publisherSubs[publisherID] = append(r.publisherSubs[publisherID],
		models.User{BaseModel: models.BaseModel{ID: userID}, Email: userID + "@readers.test"})
	return nil
}

func (r *fakeSubscriptionRepo) UnsubscribeFromPublisher(userID, publisherID string) error {
	subs := r.publisherSubs[publisherID]
	for i := range subs {
		if subs[i].ID == userID {
			r.publisherSubs[publisherID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) SubscribeToJournalist(userID, journalistID string) error {
	r.journalistSubs[journalistID] = append(r.journalistSubs[journalistID],
		models.User{BaseModel: models.BaseModel{ID: userID}, Email: userID + "@readers.test"})
	return nil
}

func (r *fakeSubscriptionRepo) UnsubscribeFromJournalist(userID, journalistID string) error {
	subs := r.journalistSubs[journalistID]
	for i := range subs {
		if subs[i].ID == userID {
			r.journalistSubs[journalistID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) IsSubscribedToPublisher(userID, publisherID string) (bool, error) {
	for _, u := range r.publisherSubs[publisherID] {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) IsSubscribedToJournalist(userID, journalistID string) (bool, error) {
	for _, u := range r.journalistSubs[journalistID] {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) SubscribedPublishers(userID string) ([]models.Publisher, error) {
	var out []models.Publisher
	for publisherID, subs := range r.publisherSubs {
		for _, u := range subs {
			if u.ID == userID {
				out = append(out, models.Publisher{BaseModel: models.BaseModel{ID: publisherID}})
			}
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) SubscribedJournalists(userID string) ([]models.User, error) {
	var out []models.User
	for journalistID, subs := range r.journalistSubs {
		for _, u := range subs {
			if u.ID == userID {
				out = append(out, models.User{BaseModel: models.BaseModel{ID: journalistID}})
			}
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) PublisherSubscribers(publisherID string) ([]models.User, error) {
	return r.publisherSubs[publisherID], nil
}

func (r *fakeSubscriptionRepo) JournalistSubscribers(journalistID string) ([]models.User, error) {
	return r.journalistSubs[journalistID], nil
}

type fakePublisherRepo struct {
	publishers map[string]*models.Publisher
}

func newFakePublisherRepo(publishers ...*models.Publisher) *fakePublisherRepo {
	r := &fakePublisherRepo{publishers: make(map[string]*models.Publisher)}
	for _, p := range publishers {
		r.publishers[p.ID] = p
	}
	return r
}

func (r *fakePublisherRepo) FindByID(id string) (*models.Publisher, error) {
	p, ok := r.publishers[id]
	if !ok {
		return nil, repositories.ErrPublisherNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePublisherRepo) FindByName(name string) (*models.Publisher, error) {
	for _, p := range r.publishers {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPublisherNotFound
}

func (r *fakePublisherRepo) Create(publisher *models.Publisher) error {
	if publisher.ID == "" {
		publisher.ID = fmt.Sprintf("publisher-%d", len(r.publishers)+1)
	}
	r.publishers[publisher.ID] = publisher
	return nil
}

func (r *fakePublisherRepo) Update(publisher *models.Publisher) error {
	r.publishers[publisher.ID] = publisher
	return nil
}

func (r *fakePublisherRepo) Delete(id string) error {
	if _, ok := r.publishers[id]; !ok {
		return repositories.ErrPublisherNotFound
	}
	delete(r.publishers, id)
	return nil
}

func (r *fakePublisherRepo) FindAll(limit, offset int) ([]models.Publisher, error) {
	var out []models.Publisher
	for _, p := range r.publishers {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePublisherRepo) CountAll() (int64, error) { return int64(len(r.publishers)), nil }

func (r *fakePublisherRepo) AddStaffMember(publisherID, userID string) error    { return nil }
func (r *fakePublisherRepo) RemoveStaffMember(publisherID, userID string) error { return nil }

// fakeDispatcher records dispatched approval events.
type fakeDispatcher struct {
	events []dispatch.ApprovalEvent
	err    error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event dispatch.ApprovalEvent) error {
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Close() error { return nil }

// fakePoster records social posts.
type fakePoster struct {
	posts []string
}

func (p *fakePoster) PostArticle(ctx context.Context, title, url string) {
	p.posts = append(p.posts, title)
}

// fakeEmailProvider records sent emails; failFor makes sends to one
// address fail.
type fakeEmailProvider struct {
	sent     []*email.Email
	sentData []email.TemplateData
	failFor  string
}

func (p *fakeEmailProvider) Send(msg *email.Email) error {
	if err := p.record(msg); err != nil {
		return err
	}
	p.sentData = append(p.sentData, nil)
	return nil
}

func (p *fakeEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, msg *email.Email) error {
	if err := p.record(msg); err != nil {
		return err
	}
	p.sentData = append(p.sentData, data)
	return nil
}

func (p *fakeEmailProvider) record(msg *email.Email) error {
	if p.failFor != "" {
		for _, to := range msg.To {
			if to == p.failFor {
				return fmt.Errorf("smtp rejected %s", to)
			}
		}
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }
func (p *fakeEmailProvider) Close() error    { return nil }
