package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"oneguard/internal/auth"
	"oneguard/internal/models"
	"oneguard/internal/scope"
	"oneguard/internal/server"
	"oneguard/internal/store"
)

// ---------- фейковые хранилища (в памяти, с теми же правилами видимости) ----------

type fakeUserStore struct {
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[uint]*models.User{}}
}

func (s *fakeUserStore) List(caller *models.User) ([]models.User, error) {
	ids := make([]uint, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []models.User{}
	for _, id := range ids {
		if scope.CanSeeUser(caller, s.users[id]) {
			out = append(out, *s.users[id])
		}
	}
	return out, nil
}

func (s *fakeUserStore) Get(caller *models.User, id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok || !scope.CanSeeUser(caller, u) {
		return nil, store.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (s *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (s *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) Create(u *models.User) error {
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now()
	copy := *u
	s.users[u.ID] = &copy
	return nil
}

func (s *fakeUserStore) Save(u *models.User) error {
	copy := *u
	s.users[u.ID] = &copy
	return nil
}

type fakeObjectStore struct {
	cities  []models.City
	objects []models.BuildingObject
}

func (s *fakeObjectStore) Cities() ([]models.City, error) {
	return s.cities, nil
}

func (s *fakeObjectStore) hydrate(o models.BuildingObject) models.BuildingObject {
	for _, c := range s.cities {
		if c.ID == o.CityID {
			o.City = c
			break
		}
	}
	return o
}

func (s *fakeObjectStore) Objects(f store.ObjectFilter) ([]models.BuildingObject, error) {
	out := []models.BuildingObject{}
	for _, o := range s.objects {
		if f.CityID != 0 && o.CityID != f.CityID {
			continue
		}
		if f.ObjectType != "" && o.ObjectType != f.ObjectType {
			continue
		}
		out = append(out, s.hydrate(o))
	}
	return out, nil
}

func (s *fakeObjectStore) GetObject(id uint) (*models.BuildingObject, error) {
	for _, o := range s.objects {
		if o.ID == id {
			h := s.hydrate(o)
			return &h, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeClientStore struct {
	nextID    uint
	clients   []models.ClientData
	histories []models.ClientHistory
	users     *fakeUserStore
	objects   *fakeObjectStore
}

func newFakeClientStore(users *fakeUserStore, objects *fakeObjectStore) *fakeClientStore {
	return &fakeClientStore{nextID: 1, users: users, objects: objects}
}

func (s *fakeClientStore) hydrate(c models.ClientData) models.ClientData {
	if u, ok := s.users.users[c.EngineerID]; ok {
		c.Engineer = *u
	}
	if o, err := s.objects.GetObject(c.BuildingObjectID); err == nil {
		c.BuildingObject = *o
	}
	return c
}

// List — как в настоящем хранилище: свежие сверху, фильтр по scope.
func (s *fakeClientStore) List(caller *models.User) ([]models.ClientData, error) {
	out := []models.ClientData{}
	for i := len(s.clients) - 1; i >= 0; i-- {
		c := s.clients[i]
		if scope.CanSeeClient(caller, &c) {
			out = append(out, s.hydrate(c))
		}
	}
	return out, nil
}

func (s *fakeClientStore) Get(caller *models.User, id uint) (*models.ClientData, error) {
	for _, c := range s.clients {
		if c.ID == id {
			if !scope.CanSeeClient(caller, &c) {
				return nil, store.ErrNotFound
			}
			h := s.hydrate(c)
			return &h, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeClientStore) Create(c *models.ClientData, h *models.ClientHistory) error {
	c.ID = s.nextID
	s.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.clients = append(s.clients, *c)

	h.ID = uint(len(s.histories) + 1)
	h.ClientDataID = c.ID
	h.Timestamp = time.Now()
	s.histories = append(s.histories, *h)
	return nil
}

func (s *fakeClientStore) Update(c *models.ClientData, h *models.ClientHistory) error {
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			c.UpdatedAt = time.Now()
			s.clients[i] = *c

			h.ID = uint(len(s.histories) + 1)
			h.ClientDataID = c.ID
			h.Timestamp = time.Now()
			s.histories = append(s.histories, *h)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeClientStore) Delete(caller *models.User, id uint) error {
	for i := range s.clients {
		if s.clients[i].ID == id {
			if !scope.CanSeeClient(caller, &s.clients[i]) {
				return store.ErrNotFound
			}
			s.clients = append(s.clients[:i], s.clients[i+1:]...)

			// история уходит каскадом вместе с записью, как в БД
			kept := s.histories[:0]
			for _, h := range s.histories {
				if h.ClientDataID != id {
					kept = append(kept, h)
				}
			}
			s.histories = kept
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeClientStore) History(clientID uint) ([]models.ClientHistory, error) {
	out := []models.ClientHistory{}
	for i := len(s.histories) - 1; i >= 0; i-- {
		h := s.histories[i]
		if h.ClientDataID != clientID {
			continue
		}
		if u, ok := s.users.users[h.UserID]; ok {
			h.User = *u
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeClientStore) historyFor(clientID uint) []models.ClientHistory {
	out := []models.ClientHistory{}
	for _, h := range s.histories {
		if h.ClientDataID == clientID {
			out = append(out, h)
		}
	}
	return out
}

// ---------- окружение теста ----------

type testEnv struct {
	router  *gin.Engine
	tokens  *auth.Manager
	users   *fakeUserStore
	clients *fakeClientStore
	objects *fakeObjectStore

	admin    *models.User
	engineer *models.User
	other    *models.User
}

const testPassword = "Secret123!"

func (e *testEnv) seedUser(t *testing.T, username string, role models.UserRole, city string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		City:         city,
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newFakeUserStore()
	objects := &fakeObjectStore{
		cities: []models.City{
			{ID: 1, Name: "Казань"},
			{ID: 2, Name: "Самара"},
		},
		objects: []models.BuildingObject{
			{ID: 1, Name: "ЖК Ривьера", Address: "ул. Ленина, 1", ObjectType: models.ObjectMCD, CityID: 1},
			{ID: 2, Name: "Отель Волга", Address: "ул. Баумана, 5", ObjectType: models.ObjectHotel, CityID: 1},
			{ID: 3, Name: "Кафе Чайка", Address: "пр. Победы, 10", ObjectType: models.ObjectCafe, CityID: 2},
		},
	}
	clients := newFakeClientStore(users, objects)
	tokens := auth.NewManager("test-secret")

	env := &testEnv{
		router:  gin.New(),
		tokens:  tokens,
		users:   users,
		clients: clients,
		objects: objects,
	}
	env.admin = env.seedUser(t, "admin", models.RoleAdmin, "Казань")
	env.engineer = env.seedUser(t, "ivanov", models.RoleEngineer, "Казань")
	env.other = env.seedUser(t, "petrov", models.RoleEngineer, "Самара")

	server.Routes(env.router, tokens, users, clients, objects, "")
	return env
}

// request гоняет запрос через полный роутер с настоящим auth-middleware.
func (e *testEnv) request(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		pair, err := e.tokens.GeneratePair(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair.Access)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func (e *testEnv) seedClient(t *testing.T, engineer *models.User, objectID uint, apartment string, interested []models.Service, rating *int) *models.ClientData {
	t.Helper()
	c := &models.ClientData{
		EngineerID:         engineer.ID,
		BuildingObjectID:   objectID,
		ApartmentNumber:    apartment,
		ContactPhone:       "+79990001122",
		UsedServices:       models.ServiceList{},
		InterestedServices: models.ServiceList(interested),
		ProviderRating:     rating,
	}
	h := &models.ClientHistory{
		UserID: engineer.ID,
		Action: "Создана новая запись для квартиры " + apartment,
	}
	require.NoError(t, e.clients.Create(c, h))
	return c
}

func intPtr(v int) *int { return &v }
