package routes

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/auth"
	"github.com/BruksfildServices01/stay-booking/internal/handlers"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(false); err != nil {
		panic(err)
	}
}

type fixture struct {
	t            *testing.T
	router       *gin.Engine
	jwt          *auth.JWTManager
	users        *memUsers
	listings     *memListings
	reservations *memRepo[models.Reservation]
	auditLogs    *memRepo[models.AuditLog]
	revoker      *memRevoker
	uploads      string

	host, otherHost, guest, otherGuest *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:            t,
		jwt:          auth.NewJWTManager("test-secret", time.Hour),
		listings:     &memListings{},
		reservations: &memRepo[models.Reservation]{},
		auditLogs:    &memRepo[models.AuditLog]{},
		revoker:      &memRevoker{revoked: map[string]time.Time{}},
		uploads:      t.TempDir(),
	}
	f.host = &models.User{ID: uuid.NewString(), Name: "Hana", Username: "hana", Email: "hana@example.com", Role: models.RoleHost}
	f.otherHost = &models.User{ID: uuid.NewString(), Name: "Omar", Username: "omar", Email: "omar@example.com", Role: models.RoleHost}
	f.guest = &models.User{ID: uuid.NewString(), Name: "Gus", Username: "gus", Email: "gus@example.com", Role: models.RoleGuest}
	f.otherGuest = &models.User{ID: uuid.NewString(), Name: "Greta", Username: "greta", Email: "greta@example.com", Role: models.RoleGuest}
	f.users = newMemUsers(f.host, f.otherHost, f.guest, f.otherGuest)

	store, err := media.NewLocalStore(f.uploads, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	f.router = gin.New()
	RegisterRoutes(f.router, App{
		Users:          f.users,
		Accommodations: f.listings,
		Reservations:   f.reservations,
		Images:         media.NewPipeline(store, media.JPEG, 2, nil),
		JWT:            f.jwt,
		Revoker:        f.revoker,
		Audit:          memAudit{logs: f.auditLogs},
		AuditLogs:      f.auditLogs,
		MaxBodyBytes:   1 << 20,
		Cookie:         handlers.CookieOptions{MaxAge: 3600},
		ErrorDetail:    true,
		UploadDir:      f.uploads,
		UploadPath:     "/uploads",
	})
	return f
}

func (f *fixture) token(u *models.User) string {
	f.t.Helper()
	token, _, err := f.jwt.Generate(u.ID)
	if err != nil {
		f.t.Fatalf("Generate: %v", err)
	}
	return token
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) json(method, path string, as *models.User, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+f.token(as))
	}
	return f.serve(req)
}

type filePart struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func (f *fixture) multipart(method, path string, as *models.User, fields map[string][]string, files []filePart) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				f.t.Fatalf("WriteField: %v", err)
			}
		}
	}
	for _, p := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := mw.CreatePart(h)
		if err != nil {
			f.t.Fatalf("CreatePart: %v", err)
		}
		_, _ = pw.Write(p.body)
	}
	if err := mw.Close(); err != nil {
		f.t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+f.token(as))
	}
	return f.serve(req)
}

func (f *fixture) seedListing(host *models.User, title, location string, images ...models.Image) *models.Accommodation {
	f.t.Helper()
	return f.seedPricedListing(host, title, location, 100, images...)
}

func (f *fixture) seedPricedListing(host *models.User, title, location string, price float64, images ...models.Image) *models.Accommodation {
	f.t.Helper()
	if len(images) == 0 {
		images = []models.Image{{URL: "/uploads/seed.jpeg", Path: "seed.jpeg"}}
	}
	acc := &models.Accommodation{
		Title:     title,
		Type:      "Room",
		Location:  location,
		MaxGuests: 2,
		Bedrooms:  1,
		Bathrooms: 1,
		Beds:      1,
		Price:     price,
		Images:    images,
		HostID:    host.ID,
	}
	if err := f.listings.Create(context.Background(), acc); err != nil {
		f.t.Fatalf("seed listing: %v", err)
	}
	return acc
}

func (f *fixture) seedReservation(host, guest *models.User) *models.Reservation {
	f.t.Helper()
	r := &models.Reservation{
		Title:    "Loft",
		Type:     "Room",
		Location: "Paris",
		Price:    100,
		CheckIn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		HostID:   host.ID,
		UserID:   guest.ID,
	}
	if err := f.reservations.Create(context.Background(), r); err != nil {
		f.t.Fatalf("seed reservation: %v", err)
	}
	return r
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Results *int   `json:"results"`
	Token   string `json:"token"`
	Data    struct {
		Data T            `json:"data"`
		User *models.User `json:"user"`
	} `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, want, w.Body.String())
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

// hugePNG is a valid 1x1 PNG whose header claims w x h pixels.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	b := pngImage(t, 1, 1)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func images(t *testing.T, n int) []filePart {
	parts := make([]filePart, n)
	for i := range parts {
		parts[i] = filePart{
			name:        "images",
			filename:    fmt.Sprintf("photo-%d.png", i+1),
			contentType: "image/png",
			body:        pngImage(t, 60, 40),
		}
	}
	return parts
}

func listingForm() map[string][]string {
	return map[string][]string{
		"title":            {"Sunny loft"},
		"description":      {"Top floor"},
		"type":             {"Entire Unit"},
		"location":         {"Paris"},
		"maxGuests":        {"3"},
		"bedrooms":         {"1"},
		"bathrooms":        {"1"},
		"beds":             {"2"},
		"price":            {"140"},
		"enhancedCleaning": {"false"},
		"amenities":        {"Wifi", "Kitchen", "Wifi"},
		"host_id":          {"someone-else"},
	}
}

func (f *fixture) exists(key string) bool {
	_, err := os.Stat(filepath.Join(f.uploads, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.t.Fatalf("stat %s: %v", key, err)
	}
	return err == nil
}

// -------- users --------

func TestSignupAssignsRouteRole(t *testing.T) {
	f := newFixture(t)
	w := f.json(http.MethodPost, "/api/users/signup", nil, map[string]string{
		"name":            "Ann",
		"email":           "Ann@Example.com",
		"username":        "ann",
		"password":        "supersecret",
		"passwordConfirm": "supersecret",
		"role":            "host",
	})
	expectStatus(t, w, http.StatusCreated)

	env := decode[any](t, w)
	if env.Token == "" || env.Data.User == nil {
		t.Fatalf("body = %s", w.Body.String())
	}
	if env.Data.User.Role != models.RoleGuest {
		t.Errorf("role = %q, want guest", env.Data.User.Role)
	}
	if strings.Contains(w.Body.String(), "supersecret") || strings.Contains(w.Body.String(), "$2a$") {
		t.Errorf("password leaked: %s", w.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != env.Token || !cookie.HttpOnly || cookie.MaxAge != 3600 {
		t.Errorf("cookie = %+v", cookie)
	}

	w = f.json(http.MethodPost, "/api/users/signup/host", nil, map[string]string{
		"name":            "Hal",
		"email":           "hal@example.com",
		"username":        "hal",
		"password":        "supersecret",
		"passwordConfirm": "supersecret",
	})
	expectStatus(t, w, http.StatusCreated)
	if env := decode[any](t, w); env.Data.User.Role != models.RoleHost {
		t.Errorf("host signup role = %q", env.Data.User.Role)
	}
}

func TestSignupRejectsBeforePersisting(t *testing.T) {
	cases := map[string]map[string]string{
		"mismatch": {
			"name": "Ann", "email": "ann@example.com", "username": "ann",
			"password": "supersecret", "passwordConfirm": "supersecreT",
		},
		"short password": {
			"name": "Ann", "email": "ann@example.com", "username": "ann",
			"password": "short", "passwordConfirm": "short",
		},
		"bad email": {
			"name": "Ann", "email": "not-an-email", "username": "ann",
			"password": "supersecret", "passwordConfirm": "supersecret",
		},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			w := f.json(http.MethodPost, "/api/users/signup", nil, body)
			expectStatus(t, w, http.StatusBadRequest)
			if f.users.saved != 0 {
				t.Errorf("user persisted")
			}
		})
	}

	f := newFixture(t)
	w := f.json(http.MethodPost, "/api/users/signup", nil, cases["mismatch"])
	if env := decode[any](t, w); !strings.Contains(env.Message, "Passwords are not the same!") {
		t.Errorf("message = %q", env.Message)
	}
}

func TestSignupDuplicate(t *testing.T) {
	f := newFixture(t)
	w := f.json(http.MethodPost, "/api/users/signup", nil, map[string]string{
		"name": "Gus", "email": "other@example.com", "username": "gus",
		"password": "supersecret", "passwordConfirm": "supersecret",
	})
	expectStatus(t, w, http.StatusConflict)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	f.users.byID[f.guest.ID].PasswordHash = hash

	unknown := f.json(http.MethodPost, "/api/users/login", nil, map[string]string{"username": "nobody", "password": "correct-horse"})
	wrong := f.json(http.MethodPost, "/api/users/login", nil, map[string]string{"username": "gus", "password": "battery-staple"})

	expectStatus(t, unknown, http.StatusUnauthorized)
	expectStatus(t, wrong, http.StatusUnauthorized)
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknown.Body.String(), wrong.Body.String())
	}
	if env := decode[any](t, wrong); env.Message != "Incorrect username or password" {
		t.Errorf("message = %q", env.Message)
	}

	ok := f.json(http.MethodPost, "/api/users/login", nil, map[string]string{"username": "gus", "password": "correct-horse"})
	expectStatus(t, ok, http.StatusOK)
	if env := decode[any](t, ok); env.Token == "" || env.Data.User.ID != f.guest.ID {
		t.Errorf("body = %s", ok.Body.String())
	}

	missing := f.json(http.MethodPost, "/api/users/login", nil, map[string]string{"username": "gus"})
	expectStatus(t, missing, http.StatusBadRequest)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	token, claims, err := f.jwt.Generate(f.guest.ID)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.serve(req)
	expectStatus(t, w, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != auth.LoggedOutValue || !cookie.HttpOnly {
		t.Errorf("cookie = %+v", cookie)
	}
	if _, ok := f.revoker.revoked[claims.ID]; !ok {
		t.Errorf("jti %s not revoked", claims.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	expectStatus(t, f.serve(req), http.StatusUnauthorized)
}

func TestMeAndHostProfile(t *testing.T) {
	f := newFixture(t)

	w := f.json(http.MethodGet, "/api/users/me", f.host, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode[models.User](t, w); env.Data.Data.ID != f.host.ID || env.Data.Data.Email != "hana@example.com" {
		t.Errorf("body = %s", w.Body.String())
	}

	expectStatus(t, f.json(http.MethodGet, "/api/users/me", nil, nil), http.StatusUnauthorized)

	w = f.json(http.MethodGet, "/api/users/host/"+f.host.ID, nil, nil)
	expectStatus(t, w, http.StatusOK)
	env := decode[map[string]any](t, w)
	if env.Data.Data["name"] != "Hana" {
		t.Errorf("body = %s", w.Body.String())
	}
	for _, private := range []string{"email", "username", "password"} {
		if _, ok := env.Data.Data[private]; ok {
			t.Errorf("public profile exposes %s", private)
		}
	}

	expectStatus(t, f.json(http.MethodGet, "/api/users/host/"+uuid.NewString(), nil, nil), http.StatusNotFound)
}

func TestUploadProfileImageReplacesOldPhoto(t *testing.T) {
	f := newFixture(t)

	w := f.multipart(http.MethodPatch, "/api/users/upload-profile-image", f.guest, nil, []filePart{
		{name: "photo", filename: "me.png", contentType: "image/png", body: pngImage(t, 500, 400)},
	})
	expectStatus(t, w, http.StatusOK)
	first := decode[models.User](t, w).Data.Data
	if !strings.HasPrefix(first.PhotoPath, "users/"+f.guest.ID+"/user-"+f.guest.ID+"-") || !f.exists(first.PhotoPath) {
		t.Fatalf("photo = %+v", first)
	}

	time.Sleep(2 * time.Millisecond)
	w = f.multipart(http.MethodPatch, "/api/users/upload-profile-image", f.guest, nil, []filePart{
		{name: "photo", filename: "me2.png", contentType: "image/png", body: pngImage(t, 300, 300)},
	})
	expectStatus(t, w, http.StatusOK)
	second := decode[models.User](t, w).Data.Data
	if second.PhotoPath == first.PhotoPath || !f.exists(second.PhotoPath) {
		t.Fatalf("photo = %+v", second)
	}
	if f.exists(first.PhotoPath) {
		t.Errorf("old photo %s not deleted", first.PhotoPath)
	}

	w = f.multipart(http.MethodPatch, "/api/users/upload-profile-image", f.guest, nil, []filePart{
		{name: "photo", filename: "notes.txt", contentType: "text/plain", body: []byte("hello")},
	})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestUploadLimits(t *testing.T) {
	f := newFixture(t)
	acc := f.seedListing(f.host, "Loft", "Paris")

	big := make([]byte, 2<<20)
	w := f.multipart(http.MethodPatch, "/api/users/upload-profile-image", f.guest, nil, []filePart{
		{name: "photo", filename: "me.png", contentType: "image/png", body: big},
	})
	expectStatus(t, w, http.StatusRequestEntityTooLarge)
	if env := decode[any](t, w); env.Message != "Request body is too large. The limit is 1 MB" {
		t.Errorf("message = %q", env.Message)
	}

	w = f.multipart(http.MethodPatch, "/api/accommodations/"+acc.ID+"/images", f.host, nil, []filePart{
		{name: "images", filename: "huge.png", contentType: "image/png", body: big},
	})
	expectStatus(t, w, http.StatusRequestEntityTooLarge)

	w = f.multipart(http.MethodPatch, "/api/users/upload-profile-image", f.guest, nil, []filePart{
		{name: "photo", filename: "bomb.png", contentType: "image/png", body: hugePNG(t, 50_000, 50_000)},
	})
	expectStatus(t, w, http.StatusBadRequest)
	if env := decode[any](t, w); !strings.Contains(env.Message, "too large") {
		t.Errorf("message = %q", env.Message)
	}
	if u, _ := f.users.FindByID(context.Background(), f.guest.ID); u.PhotoPath != "" {
		t.Errorf("photo stored: %q", u.PhotoPath)
	}
}

func TestMyAuditLogs(t *testing.T) {
	f := newFixture(t)
	acc := f.seedListing(f.host, "Loft", "Paris")

	rec := memAudit{logs: f.auditLogs}
	rec.Dispatch(audit.Event{ActorID: f.otherHost.ID, Action: "accommodation_updated", Entity: "accommodation", EntityID: "elsewhere"})
	rec.Dispatch(audit.Event{ActorID: f.host.ID, Action: "user_signed_up", Entity: "user", EntityID: f.host.ID})
	expectStatus(t, f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.host, map[string]any{"price": 180}), http.StatusOK)
	expectStatus(t, f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.host, map[string]any{"price": 190}), http.StatusOK)

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"newest first", "", "4,3,2"},
		{"action", "?action=user_signed_up", "2"},
		{"entity page", "?entity=accommodation&limit=1&page=2", "3"},
		{"actor filter cannot widen", "?actor_id=" + f.otherHost.ID, ""},
		{"date range", "?created_at[gte]=2027-01-01", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.json(http.MethodGet, "/api/users/me/audit-logs"+tc.query, f.host, nil)
			expectStatus(t, w, http.StatusOK)

			env := decode[[]models.AuditLog](t, w)
			ids := make([]string, 0, len(env.Data.Data))
			for _, l := range env.Data.Data {
				if l.ActorID != f.host.ID {
					t.Errorf("foreign entry %+v", l)
				}
				ids = append(ids, fmt.Sprint(l.ID))
			}
			if got := strings.Join(ids, ","); got != tc.want {
				t.Errorf("ids = %q, want %q", got, tc.want)
			}
			if env.Results == nil || *env.Results != len(ids) {
				t.Errorf("results = %v", env.Results)
			}
		})
	}

	latest := decode[[]models.AuditLog](t, f.json(http.MethodGet, "/api/users/me/audit-logs?limit=1", f.host, nil)).Data.Data
	if len(latest) != 1 || latest[0].Action != "accommodation_updated" || latest[0].EntityID != acc.ID {
		t.Errorf("latest = %+v", latest)
	}

	expectStatus(t, f.json(http.MethodGet, "/api/users/me/audit-logs", nil, nil), http.StatusUnauthorized)
	expectStatus(t, f.json(http.MethodGet, "/api/users/me/audit-logs?created_at[between]=1", f.host, nil), http.StatusBadRequest)
}

// -------- accommodations --------

func TestCreateListing(t *testing.T) {
	f := newFixture(t)

	w := f.multipart(http.MethodPost, "/api/accommodations", f.host, listingForm(), images(t, 2))
	expectStatus(t, w, http.StatusCreated)

	acc := decode[models.Accommodation](t, w).Data.Data
	if acc.HostID != f.host.ID {
		t.Errorf("host_id = %q, want %q", acc.HostID, f.host.ID)
	}
	if acc.Rating < 4 || acc.Rating > 5 || acc.Reviews < 1 || acc.Reviews > 500 {
		t.Errorf("stats = %v / %d", acc.Rating, acc.Reviews)
	}
	if acc.EnhancedCleaning == nil || *acc.EnhancedCleaning || acc.SelfCheckIn == nil || !*acc.SelfCheckIn {
		t.Errorf("flags = %v %v", acc.EnhancedCleaning, acc.SelfCheckIn)
	}
	if strings.Join(acc.Amenities, ",") != "Wifi,Kitchen" {
		t.Errorf("amenities = %v", acc.Amenities)
	}
	if len(acc.Images) != 2 {
		t.Fatalf("images = %+v", acc.Images)
	}

	prefix := "accommodations/" + acc.ID + "/accommodation-" + acc.ID + "-"
	for i, img := range acc.Images {
		if !strings.HasPrefix(img.Path, prefix) || !strings.HasSuffix(img.Path, fmt.Sprintf("-%d.jpeg", i+1)) {
			t.Errorf("image %d path = %q", i, img.Path)
		}
		if img.URL != "/uploads/"+img.Path || !f.exists(img.Path) {
			t.Errorf("image %d not stored: %+v", i, img)
		}
	}

	served := f.serve(httptest.NewRequest(http.MethodGet, acc.Images[0].URL, nil))
	expectStatus(t, served, http.StatusOK)

	if f.listings.len() != 1 {
		t.Errorf("stored %d listings", f.listings.len())
	}
}

func TestCreateListingRejections(t *testing.T) {
	cases := []struct {
		name   string
		as     func(*fixture) *models.User
		form   func() map[string][]string
		files  func(*testing.T) []filePart
		status int
	}{
		{
			name:   "guest",
			as:     func(f *fixture) *models.User { return f.guest },
			form:   listingForm,
			files:  func(t *testing.T) []filePart { return images(t, 1) },
			status: http.StatusForbidden,
		},
		{
			name:   "anonymous",
			as:     func(*fixture) *models.User { return nil },
			form:   listingForm,
			files:  func(t *testing.T) []filePart { return images(t, 1) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "no images",
			as:     func(f *fixture) *models.User { return f.host },
			form:   listingForm,
			files:  func(*testing.T) []filePart { return nil },
			status: http.StatusBadRequest,
		},
		{
			name:   "too many images",
			as:     func(f *fixture) *models.User { return f.host },
			form:   listingForm,
			files:  func(t *testing.T) []filePart { return images(t, 11) },
			status: http.StatusBadRequest,
		},
		{
			name: "not an image",
			as:   func(f *fixture) *models.User { return f.host },
			form: listingForm,
			files: func(*testing.T) []filePart {
				return []filePart{{name: "images", filename: "a.txt", contentType: "text/plain", body: []byte("x")}}
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown location",
			as:   func(f *fixture) *models.User { return f.host },
			form: func() map[string][]string {
				form := listingForm()
				form["location"] = []string{"Atlantis"}
				return form
			},
			files:  func(t *testing.T) []filePart { return images(t, 1) },
			status: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.multipart(http.MethodPost, "/api/accommodations", tc.as(f), tc.form(), tc.files(t))
			expectStatus(t, w, tc.status)
			if f.listings.len() != 0 {
				t.Errorf("listing stored")
			}
		})
	}
}

func TestGetListings(t *testing.T) {
	f := newFixture(t)
	paris := f.seedListing(f.host, "Paris loft", "Paris")
	f.seedListing(f.otherHost, "Rome villa", "Rome")

	w := f.json(http.MethodGet, "/api/accommodations?location=Paris", nil, nil)
	expectStatus(t, w, http.StatusOK)
	env := decode[[]models.Accommodation](t, w)
	if env.Results == nil || *env.Results != 1 || env.Data.Data[0].ID != paris.ID {
		t.Errorf("body = %s", w.Body.String())
	}

	w = f.json(http.MethodGet, "/api/accommodations", nil, nil)
	if env := decode[[]models.Accommodation](t, w); *env.Results != 2 {
		t.Errorf("results = %d", *env.Results)
	}

	expectStatus(t, f.json(http.MethodGet, "/api/accommodations?price[eq]=1", nil, nil), http.StatusBadRequest)

	w = f.json(http.MethodGet, "/api/accommodations/"+paris.ID, nil, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode[models.Accommodation](t, w); env.Data.Data.Title != "Paris loft" {
		t.Errorf("body = %s", w.Body.String())
	}
	expectStatus(t, f.json(http.MethodGet, "/api/accommodations/"+uuid.NewString(), nil, nil), http.StatusNotFound)

	w = f.json(http.MethodGet, "/api/accommodations/locations/summary", nil, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode[[]models.LocationSummary](t, w); *env.Results != 2 {
		t.Errorf("summary = %s", w.Body.String())
	}
}

func titles(list []models.Accommodation) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Title
	}
	return out
}

func TestGetListingsRangeSortAndPage(t *testing.T) {
	f := newFixture(t)
	f.seedPricedListing(f.host, "Budget room", "Paris", 50)
	f.seedPricedListing(f.host, "Mid loft", "Paris", 120)
	f.seedPricedListing(f.otherHost, "Grand villa", "Rome", 300)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"Grand villa", "Mid loft", "Budget room"}},
		{"?price[gte]=120", []string{"Grand villa", "Mid loft"}},
		{"?price[gt]=120", []string{"Grand villa"}},
		{"?price[lte]=120&sort=price", []string{"Budget room", "Mid loft"}},
		{"?price[lt]=50", []string{}},
		{"?sort=-price", []string{"Grand villa", "Mid loft", "Budget room"}},
		{"?sort=price&limit=2&page=2", []string{"Grand villa"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := f.json(http.MethodGet, "/api/accommodations"+tc.query, nil, nil)
			expectStatus(t, w, http.StatusOK)
			got := titles(decode[[]models.Accommodation](t, w).Data.Data)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHostListingsAreScoped(t *testing.T) {
	f := newFixture(t)
	mine := f.seedListing(f.host, "Mine", "Paris")
	f.seedListing(f.otherHost, "Theirs", "Paris")

	w := f.json(http.MethodGet, "/api/accommodations/host/listings?host_id="+f.otherHost.ID, f.host, nil)
	expectStatus(t, w, http.StatusOK)
	env := decode[[]models.Accommodation](t, w)
	if *env.Results != 0 {
		t.Errorf("scope was overridden: %s", w.Body.String())
	}

	w = f.json(http.MethodGet, "/api/accommodations/host/listings", f.host, nil)
	env = decode[[]models.Accommodation](t, w)
	if *env.Results != 1 || env.Data.Data[0].ID != mine.ID {
		t.Errorf("body = %s", w.Body.String())
	}

	expectStatus(t, f.json(http.MethodGet, "/api/accommodations/host/listings", f.guest, nil), http.StatusForbidden)
}

func TestUpdateListing(t *testing.T) {
	f := newFixture(t)
	acc := f.seedListing(f.host, "Loft", "Paris")

	patch := map[string]any{
		"price":    220,
		"location": "Rome",
		"host_id":  f.otherHost.ID,
		"images":   []map[string]string{{"url": "x", "path": "x"}},
	}

	w := f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.otherHost, patch)
	expectStatus(t, w, http.StatusNotFound)
	if env := decode[any](t, w); env.Message != "Document not found or does not belong to your account" {
		t.Errorf("message = %q", env.Message)
	}

	w = f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.host, patch)
	expectStatus(t, w, http.StatusOK)
	got := decode[models.Accommodation](t, w).Data.Data
	if got.Price != 220 || got.Location != "Paris" || got.HostID != f.host.ID || len(got.Images) != 1 || got.Images[0].Path != "seed.jpeg" {
		t.Errorf("updated = %+v", got)
	}

	expectStatus(t, f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.host, map[string]any{"location": "Rome"}), http.StatusBadRequest)
	expectStatus(t, f.json(http.MethodPatch, "/api/accommodations/"+acc.ID, f.host, map[string]any{"price": 0}), http.StatusBadRequest)
}

func TestListingImageLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.multipart(http.MethodPost, "/api/accommodations", f.host, listingForm(), images(t, 2))
	expectStatus(t, w, http.StatusCreated)
	acc := decode[models.Accommodation](t, w).Data.Data
	original := acc.Images

	time.Sleep(2 * time.Millisecond)
	w = f.multipart(http.MethodPatch, "/api/accommodations/"+acc.ID+"/images", f.host, nil, images(t, 1))
	expectStatus(t, w, http.StatusOK)
	replaced := decode[models.Accommodation](t, w).Data.Data
	if len(replaced.Images) != 1 || !f.exists(replaced.Images[0].Path) {
		t.Fatalf("replace = %+v", replaced.Images)
	}
	for _, img := range original {
		if f.exists(img.Path) {
			t.Errorf("replaced image %s still stored", img.Path)
		}
	}

	expectStatus(t,
		f.json(http.MethodDelete, "/api/accommodations/"+acc.ID+"/images", f.host, map[string]string{"imagePath": replaced.Images[0].Path}),
		http.StatusBadRequest,
	)

	time.Sleep(2 * time.Millisecond)
	w = f.multipart(http.MethodPost, "/api/accommodations/"+acc.ID+"/images", f.host, map[string][]string{"mode": {"append"}}, images(t, 2))
	expectStatus(t, w, http.StatusOK)
	appended := decode[models.Accommodation](t, w).Data.Data
	if len(appended.Images) != 3 || appended.Images[0] != replaced.Images[0] {
		t.Fatalf("append = %+v", appended.Images)
	}

	w = f.json(http.MethodDelete, "/api/accommodations/"+acc.ID+"/images", f.host, map[string]string{"imagePath": appended.Images[0].Path})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Accommodation](t, w).Data.Data; len(got.Images) != 2 {
		t.Errorf("after remove = %+v", got.Images)
	}
	if f.exists(appended.Images[0].Path) {
		t.Errorf("removed image still stored")
	}

	w = f.multipart(http.MethodPost, "/api/accommodations/"+acc.ID+"/images", f.otherHost, nil, images(t, 1))
	expectStatus(t, w, http.StatusNotFound)

	w = f.multipart(http.MethodPost, "/api/accommodations/"+acc.ID+"/images", f.host, map[string][]string{"mode": {"merge"}}, images(t, 1))
	expectStatus(t, w, http.StatusBadRequest)

	expectStatus(t, f.json(http.MethodDelete, "/api/accommodations/"+acc.ID, f.otherHost, nil), http.StatusNotFound)

	w = f.json(http.MethodDelete, "/api/accommodations/"+acc.ID, f.host, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode[any](t, w); env.Message != "Accommodation deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}
	for _, img := range appended.Images[1:] {
		if f.exists(img.Path) {
			t.Errorf("image %s survived listing deletion", img.Path)
		}
	}
	if f.listings.len() != 0 {
		t.Errorf("listing not deleted")
	}
}

// -------- reservations --------

func reservationBody(host *models.User, checkIn, checkOut string) map[string]any {
	return map[string]any{
		"title":     "Loft",
		"type":      "Room",
		"location":  "Paris",
		"maxGuests": 2,
		"bedrooms":  1,
		"price":     100,
		"host_id":   host.ID,
		"checkIn":   checkIn,
		"checkOut":  checkOut,
		"user_id":   uuid.NewString(),
		"username":  "mallory",
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)

	for _, stay := range [][2]string{{"2025-03-04", "2025-03-04"}, {"2025-03-04", "2025-03-01"}, {"", "2025-03-01"}} {
		w := f.json(http.MethodPost, "/api/reservations", f.guest, reservationBody(f.host, stay[0], stay[1]))
		expectStatus(t, w, http.StatusBadRequest)
	}
	if f.reservations.len() != 0 {
		t.Fatalf("invalid stay stored")
	}

	expectStatus(t,
		f.json(http.MethodPost, "/api/reservations", f.host, reservationBody(f.host, "2025-03-01", "2025-03-04")),
		http.StatusForbidden,
	)

	w := f.json(http.MethodPost, "/api/reservations", f.guest, reservationBody(f.host, "2025-03-01", "2025-03-04"))
	expectStatus(t, w, http.StatusCreated)
	r := decode[models.Reservation](t, w).Data.Data
	if r.UserID != f.guest.ID || r.User != "Gus" || r.Username != "gus" || r.HostID != f.host.ID {
		t.Errorf("reservation = %+v", r)
	}
}

func TestReservationsAreScoped(t *testing.T) {
	f := newFixture(t)
	mine := f.seedReservation(f.host, f.guest)
	f.seedReservation(f.otherHost, f.otherGuest)
	f.seedReservation(f.host, f.otherGuest)

	cases := []struct {
		as       *models.User
		all      int
		filtered int
	}{
		{f.guest, 1, 0},
		{f.otherGuest, 2, 2},
		{f.host, 2, 1},
		{f.otherHost, 1, 1},
	}
	for _, tc := range cases {
		w := f.json(http.MethodGet, "/api/reservations", tc.as, nil)
		expectStatus(t, w, http.StatusOK)
		if env := decode[[]models.Reservation](t, w); *env.Results != tc.all {
			t.Errorf("%s: results = %d, want %d", tc.as.Username, *env.Results, tc.all)
		}

		// A client filter narrows the scope but never replaces it.
		w = f.json(http.MethodGet, "/api/reservations?user_id="+f.otherGuest.ID, tc.as, nil)
		expectStatus(t, w, http.StatusOK)
		if env := decode[[]models.Reservation](t, w); *env.Results != tc.filtered {
			t.Errorf("%s filtered: results = %d, want %d", tc.as.Username, *env.Results, tc.filtered)
		}
	}

	expectStatus(t, f.json(http.MethodGet, "/api/reservations", nil, nil), http.StatusUnauthorized)

	expectStatus(t, f.json(http.MethodDelete, "/api/reservations/"+mine.ID, f.otherGuest, nil), http.StatusNotFound)
	w := f.json(http.MethodDelete, "/api/reservations/"+mine.ID, f.guest, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode[any](t, w); env.Message != "Reservation deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestHealthAndNoRoute(t *testing.T) {
	f := newFixture(t)
	expectStatus(t, f.json(http.MethodGet, "/health", nil, nil), http.StatusOK)

	w := f.json(http.MethodGet, "/api/nope", nil, nil)
	expectStatus(t, w, http.StatusNotFound)
	if env := decode[any](t, w); env.Status != "fail" {
		t.Errorf("body = %s", w.Body.String())
	}
}
