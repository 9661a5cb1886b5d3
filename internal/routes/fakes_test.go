package routes

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// memRepo keeps documents as their JSON maps, so filters and changes use the
// same field names clients send.
type memRepo[T any] struct {
	mu   sync.Mutex
	docs []map[string]any
	seq  int
}

// epoch anchors createdAt so documents created later always sort later.
var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func toMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	return m
}

func toJSONValue(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return out
}

func fromMap[T any](m map[string]any, into *T) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

// compare orders two JSON values as numbers, then as timestamps, then as text.
func compare(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		return cmp.Compare(af, bf)
	}
	at, aerr := time.Parse(time.RFC3339Nano, as)
	bt, berr := time.Parse(time.RFC3339Nano, bs)
	if aerr == nil && berr == nil {
		return at.Compare(bt)
	}
	return strings.Compare(as, bs)
}

func matches(doc map[string]any, c query.Condition) bool {
	got := fmt.Sprint(doc[c.Field])
	switch c.Op {
	case query.OpEq:
		return got == fmt.Sprint(c.Value)
	case query.OpIn:
		vals, _ := c.Value.([]string)
		return slices.Contains(vals, got)
	case query.OpGte:
		return compare(doc[c.Field], c.Value) >= 0
	case query.OpGt:
		return compare(doc[c.Field], c.Value) > 0
	case query.OpLte:
		return compare(doc[c.Field], c.Value) <= 0
	case query.OpLt:
		return compare(doc[c.Field], c.Value) < 0
	default:
		return false
	}
}

func sortDocs(docs []map[string]any, sorts []query.Sort) {
	slices.SortStableFunc(docs, func(a, b map[string]any) int {
		for _, s := range sorts {
			c := compare(a[s.Field], b[s.Field])
			if s.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func (r *memRepo[T]) index(id string) int {
	return slices.IndexFunc(r.docs, func(d map[string]any) bool { return fmt.Sprint(d["id"]) == id })
}

func (r *memRepo[T]) owned(id string, owner query.Condition) (int, error) {
	i := r.index(id)
	if i < 0 || !matches(r.docs[i], owner) {
		return -1, httperr.NotFound("Document not found or does not belong to your account")
	}
	return i, nil
}

func (r *memRepo[T]) FindByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, httperr.NotFound("No document found with that Id")
	}
	var out T
	return &out, fromMap(r.docs[i], &out)
}

func (r *memRepo[T]) Find(_ context.Context, q query.Query) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var hits []map[string]any
	for _, d := range r.docs {
		ok := true
		for _, c := range q.Conditions {
			ok = ok && matches(d, c)
		}
		if ok {
			hits = append(hits, d)
		}
	}
	sortDocs(hits, q.Sorts)
	if p := q.Page; p != nil {
		lo := min(p.Offset(), len(hits))
		hits = hits[lo:min(lo+p.Size, len(hits))]
	}

	out := make([]T, 0, len(hits))
	for _, d := range hits {
		var doc T
		if err := fromMap(d, &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *memRepo[T]) FindOwned(_ context.Context, id string, owner query.Condition) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	var out T
	return &out, fromMap(r.docs[i], &out)
}

func (r *memRepo[T]) Create(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := toMap(doc)
	r.seq++
	switch id := m["id"].(type) {
	case string:
		if id == "" {
			m["id"] = uuid.NewString()
		}
	case float64:
		if id == 0 {
			m["id"] = r.seq
		}
	}
	m["version"] = 1
	m["createdAt"] = toJSONValue(epoch.Add(time.Duration(r.seq) * time.Second))
	if _, ok := m["created_at"]; ok {
		m["created_at"] = m["createdAt"]
	}
	r.docs = append(r.docs, m)
	return fromMap(m, doc)
}

func (r *memRepo[T]) Update(_ context.Context, id string, owner query.Condition, ch resource.Changes) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	d := r.docs[i]
	for k, v := range ch.Set {
		d[k] = toJSONValue(v)
	}
	for k, v := range ch.Append {
		cur, _ := d[k].([]any)
		more, _ := toJSONValue(v).([]any)
		d[k] = append(cur, more...)
	}
	d["version"] = toJSONValue(d["version"]).(float64) + 1
	var out T
	return &out, fromMap(d, &out)
}

func (r *memRepo[T]) Delete(_ context.Context, id string, owner query.Condition) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.owned(id, owner)
	if err != nil {
		return nil, err
	}
	var out T
	err = fromMap(r.docs[i], &out)
	r.docs = slices.Delete(r.docs, i, i+1)
	return &out, err
}

func (r *memRepo[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

type memListings struct {
	memRepo[models.Accommodation]
}

func (m *memListings) SummarizeLocations(context.Context) ([]models.LocationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	var order []string
	for _, d := range m.docs {
		loc := fmt.Sprint(d["location"])
		if counts[loc] == 0 {
			order = append(order, loc)
		}
		counts[loc]++
	}
	out := make([]models.LocationSummary, 0, len(order))
	for _, loc := range order {
		out = append(out, models.LocationSummary{Location: loc, Count: counts[loc]})
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	saved int
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{byID: map[string]*models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return httperr.Conflict("Duplicate field value. Please use another value!")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.saved++
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.NotFound("No user found with that Id")
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, httperr.NotFound("No user found with that Id")
}

func (m *memUsers) UpdatePhoto(_ context.Context, id string, photo models.Image) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, httperr.NotFound("No user found with that Id")
	}
	u.Photo, u.PhotoPath = photo.URL, photo.Path
	cp := *u
	return &cp, nil
}

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *memRevoker) Revoke(_ context.Context, jti string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = exp
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[jti]
	return ok, nil
}

func (r *memRevoker) Close() error { return nil }

// memAudit stores dispatched events synchronously so tests can read them back.
type memAudit struct {
	logs *memRepo[models.AuditLog]
}

func (a memAudit) Dispatch(ev audit.Event) {
	if err := a.logs.Create(context.Background(), audit.Record(ev)); err != nil {
		panic(err)
	}
}
