package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salon-booking-backend/internal/handlers"
	"salon-booking-backend/internal/models"
	"salon-booking-backend/internal/repository"
	"salon-booking-backend/internal/services"
	"salon-booking-backend/internal/sessions"
	"salon-booking-backend/internal/storage"
)

const testMaxPhoto = 4096

func newTestServer(t *testing.T) (*httptest.Server, *repository.MemoryReservationRepository) {
	t.Helper()

	dir := t.TempDir()
	local, err := storage.NewLocalStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	repo := repository.NewMemoryReservationRepository()

	adminService, err := services.NewAdminService("admin", "1234", "")
	if err != nil {
		t.Fatalf("NewAdminService() error = %v", err)
	}
	manager := sessions.NewManager(sessions.NewStore(time.Hour), sessions.NewCodec("test-secret"), sessions.CookieOptions{Name: "salon_session"})

	r := newRouter(routes{
		reservations: handlers.NewReservationHandler(services.NewReservationService(repo, local, testMaxPhoto), testMaxPhoto),
		admin:        handlers.NewAdminHandler(adminService, manager),
		health:       handlers.NewHealthHandler(nil),
		sessions:     manager,
		uploadDir:    local.Dir(),
		uploadPath:   "/uploads",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	return &http.Client{Jar: jar}
}

func reservationForm(t *testing.T, name string, photo []byte) (io.Reader, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fields := [][2]string{
		{"date", "2025-03-01"},
		{"time", "14:00"},
		{"name", name},
		{"phone", "010-1111-2222"},
		{"school", "X Univ"},
		{"studentId", "20251234"},
		{"email", "k@example.com"},
		{"location", "정릉동"},
		{"price", "1만원 - 2만원"},
		{"treatment", "커트"},
	}
	for _, f := range fields {
		mw.WriteField(f[0], f[1])
	}
	if photo != nil {
		part, _ := mw.CreateFormFile("photo", "hair.jpg")
		part.Write(photo)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func postReservation(t *testing.T, c *http.Client, base, name string, photo []byte) *http.Response {
	t.Helper()
	body, contentType := reservationForm(t, name, photo)
	resp, err := c.Post(base+"/api/reservations", contentType, body)
	if err != nil {
		t.Fatalf("POST /api/reservations: %v", err)
	}
	return resp
}

func login(t *testing.T, c *http.Client, base, username, password string) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := c.Post(base+"/api/admin/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/admin/login: %v", err)
	}
	return resp
}

func listReservations(t *testing.T, c *http.Client, base string) (*http.Response, []models.Reservation) {
	t.Helper()
	resp, err := c.Get(base + "/api/reservations")
	if err != nil {
		t.Fatalf("GET /api/reservations: %v", err)
	}
	defer resp.Body.Close()

	var out []models.Reservation
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode list: %v", err)
		}
	}
	return resp, out
}

func TestRouter_SubmitLoginListLogout(t *testing.T) {
	srv, repo := newTestServer(t)
	c := newClient(t)

	resp := postReservation(t, c, srv.URL, "Kim", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, want %v", resp.StatusCode, http.StatusCreated)
	}
	var created models.Reservation
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID != 1 || created.PhotoURL != nil {
		t.Errorf("created = %+v, want id 1 without photo", created)
	}

	resp = postReservation(t, c, srv.URL, "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name status = %v, want %v", resp.StatusCode, http.StatusBadRequest)
	}
	if repo.Len() != 1 {
		t.Errorf("stored = %v, want 1", repo.Len())
	}

	if resp, _ := listReservations(t, c, srv.URL); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}

	resp = login(t, c, srv.URL, "admin", "wrong")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}
	if resp, _ := listReservations(t, c, srv.URL); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("list after failed login status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}

	resp = login(t, c, srv.URL, "admin", "1234")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %v, want %v", resp.StatusCode, http.StatusOK)
	}

	resp, list := listReservations(t, c, srv.URL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if len(list) != 1 || list[0].Name != "Kim" {
		t.Errorf("list = %+v, want Kim only", list)
	}

	resp, err := c.Post(srv.URL+"/api/admin/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/admin/logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("logout status = %v, want %v", resp.StatusCode, http.StatusOK)
	}

	if resp, _ := listReservations(t, c, srv.URL); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("list after logout status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestRouter_PhotoUploadIsServed(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	photo := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{7}, 100)...)
	resp := postReservation(t, c, srv.URL, "Lee", photo)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %v, want %v", resp.StatusCode, http.StatusCreated)
	}
	var created models.Reservation
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.PhotoURL == nil || !strings.HasPrefix(*created.PhotoURL, "/uploads/") {
		t.Fatalf("PhotoURL = %v, want /uploads/...", created.PhotoURL)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+*created.PhotoURL, nil)
	req.Header.Set("Origin", "https://admin.example")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("GET photo: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("photo status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	got, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(got, photo) {
		t.Error("served photo differs from upload")
	}
	if acao := resp.Header.Get("Access-Control-Allow-Origin"); acao != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", acao)
	}

	resp, err = c.Get(srv.URL + "/uploads/")
	if err != nil {
		t.Fatalf("GET upload dir: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("upload dir status = %v, want %v", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRouter_OversizePhotoRejected(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := postReservation(t, newClient(t), srv.URL, "Park", bytes.Repeat([]byte{1}, testMaxPhoto+1))
	resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusRequestEntityTooLarge)
	}
	if repo.Len() != 0 {
		t.Errorf("stored = %v, want 0", repo.Len())
	}
}

func TestRouter_TamperedCookieRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	resp := login(t, c, srv.URL, "admin", "1234")
	resp.Body.Close()

	var token string
	for _, ck := range resp.Cookies() {
		if ck.Name == "salon_session" {
			token = ck.Value
		}
	}
	if token == "" {
		t.Fatal("login did not set the session cookie")
	}

	// change one character inside the signature
	i := len(token) - 5
	swap := byte('A')
	if token[i] == 'A' {
		swap = 'B'
	}
	forged := token[:i] + string(swap) + token[i+1:]

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/reservations", nil)
	req.AddCookie(&http.Cookie{Name: "salon_session", Value: forged})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/reservations: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestRouter_SessionAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	check := func(want bool) {
		t.Helper()
		resp, err := c.Get(srv.URL + "/api/admin/session")
		if err != nil {
			t.Fatalf("GET /api/admin/session: %v", err)
		}
		defer resp.Body.Close()
		var body handlers.SessionResponse
		json.NewDecoder(resp.Body).Decode(&body)
		if body.Authenticated != want {
			t.Errorf("Authenticated = %v, want %v", body.Authenticated, want)
		}
	}

	check(false)
	login(t, c, srv.URL, "admin", "1234").Body.Close()
	check(true)

	resp, err := c.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
}
