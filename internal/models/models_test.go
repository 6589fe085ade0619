package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCreateReservationRequest_ToReservation(t *testing.T) {
	notes := "앞머리만"
	req := CreateReservationRequest{
		Date:      "2025-03-01",
		Time:      "14:00",
		Name:      "Kim",
		Phone:     "010-1111-2222",
		School:    "X Univ",
		StudentID: "20251234",
		Email:     "k@example.com",
		Location:  "정릉동",
		Price:     "1만원 - 2만원",
		Treatment: "커트",
		Notes:     &notes,
	}
	now := time.Now()

	res := req.ToReservation(7, now)

	if res.ID != 7 {
		t.Errorf("Reservation.ID = %v, want %v", res.ID, 7)
	}
	if res.CreatedAt != now {
		t.Errorf("Reservation.CreatedAt = %v, want %v", res.CreatedAt, now)
	}
	if res.StudentID != "20251234" {
		t.Errorf("Reservation.StudentID = %v, want %v", res.StudentID, "20251234")
	}
	if res.Notes == nil || *res.Notes != notes {
		t.Errorf("Reservation.Notes = %v, want %v", res.Notes, notes)
	}
	if res.PhotoURL != nil {
		t.Errorf("Reservation.PhotoURL = %v, want nil", *res.PhotoURL)
	}

	// the stored record must not alias the request
	*req.Notes = "changed"
	if *res.Notes != "앞머리만" {
		t.Errorf("Reservation.Notes changed with request: %v", *res.Notes)
	}
}

func TestReservation_JSONKeepsOptionalFields(t *testing.T) {
	res := Reservation{ID: 1, Name: "Kim"}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	for _, key := range []string{"notes", "photoUrl", "studentId", "createdAt"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("field %q missing from JSON %s", key, data)
		}
	}
	if fields["photoUrl"] != nil {
		t.Errorf("photoUrl = %v, want null", fields["photoUrl"])
	}
}
