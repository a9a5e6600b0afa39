package devapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

// account is a user plus the server-side state the client never sees whole.
type account struct {
	user     models.User
	balance  models.Money
	pending  models.Money
	earned   models.Money
	accepted map[string]bool
	done     map[string]bool
	methods  []models.PaymentMethod
	payouts  []models.Payout
}

type otpState struct {
	sent     bool
	verified bool
}

// store is the whole backend state, guarded by one mutex.
type store struct {
	mu sync.Mutex

	accounts map[string]*account  // by user id
	otp      map[string]*otpState // by channel + ":" + identifier
	tasks    map[string]*models.Task
	order    []string // task ids, newest last

	states []models.State
	cities map[string][]models.City
}

func newStore() *store {
	s := &store{
		accounts: map[string]*account{},
		otp:      map[string]*otpState{},
		tasks:    map[string]*models.Task{},
		states: []models.State{
			{ID: "KA", Name: "Karnataka"},
			{ID: "KL", Name: "Kerala"},
			{ID: "MH", Name: "Maharashtra"},
		},
		cities: map[string][]models.City{
			"KA": {{ID: "BLR", StateID: "KA", Name: "Bengaluru"}, {ID: "MYS", StateID: "KA", Name: "Mysuru"}},
			"KL": {{ID: "COK", StateID: "KL", Name: "Kochi"}, {ID: "TRV", StateID: "KL", Name: "Thiruvananthapuram"}},
			"MH": {{ID: "BOM", StateID: "MH", Name: "Mumbai"}, {ID: "PNQ", StateID: "MH", Name: "Pune"}},
		},
	}
	s.seed()
	return s
}

func shortID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *store) seed() {
	adv := s.addAccount(models.User{
		Name:  "Demo Advertiser",
		Email: "advertiser@taskmarket.test",
		Phone: "9000000001",
		Role:  models.RoleAdvertiser,
	})
	for _, t := range []models.Task{
		{Title: "Share our Diwali offer", Message: "Flat 40% off this Diwali!", Link: "https://example.in/diwali", Reward: models.Rupees(5), Slots: 100},
		{Title: "Post the app invite", Message: "Earn by sharing links. Join me!", Link: "https://example.in/app", Reward: models.Rupees(8), Slots: 50},
		{Title: "Status: new menu", Message: "Our new thali is here.", Reward: models.Rupees(3), Slots: 200},
	} {
		s.addTask(adv.user.ID, models.TaskInput{Title: t.Title, Message: t.Message, Link: t.Link, Reward: t.Reward, Slots: t.Slots})
	}
}

func (s *store) addAccount(u models.User) *account {
	u.ID = shortID("u_")
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ReferralCode = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	a := &account{user: u, accepted: map[string]bool{}, done: map[string]bool{}}
	s.accounts[u.ID] = a
	return a
}

func (s *store) addTask(ownerID string, in models.TaskInput) *models.Task {
	t := &models.Task{
		ID:          shortID("t_"),
		Title:       in.Title,
		Description: in.Description,
		Message:     in.Message,
		Link:        in.Link,
		Reward:      in.Reward,
		Slots:       in.Slots,
		Status:      models.TaskStatusOpen,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t
}

func (s *store) byIdentifier(ch models.Channel, identifier string) *account {
	for _, a := range s.accounts {
		if ch == models.ChannelEmail && strings.EqualFold(a.user.Email, identifier) {
			return a
		}
		if ch == models.ChannelPhone && a.user.Phone == identifier {
			return a
		}
	}
	return nil
}

func (s *store) byReferral(code string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.ReferralCode, code) {
			return a
		}
	}
	return nil
}

func otpKey(ch models.Channel, identifier string) string {
	return string(ch) + ":" + strings.ToLower(identifier)
}

func (s *store) otpFor(ch models.Channel, identifier string) *otpState {
	key := otpKey(ch, identifier)
	st, ok := s.otp[key]
	if !ok {
		st = &otpState{}
		s.otp[key] = st
	}
	return st
}

func (s *store) dropOTP(ch models.Channel, identifier string) {
	delete(s.otp, otpKey(ch, identifier))
}

func (s *store) cityValid(stateID, cityID string) bool {
	for _, c := range s.cities[stateID] {
		if c.ID == cityID {
			return true
		}
	}
	return false
}
