package handler

import (
	"net/http"
	"testing"
)

func TestMemberCRUD(t *testing.T) {
	env := setupHandlers(t)

	rec := call(env.members.Create, "POST", "/api/members", "", `{"name":"Asha","house":"A-1","role":"Owner","phone":"98765"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var m struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Email  *string `json:"email"`
	}
	decodeBody(t, rec, &m)
	if m.Status != "active" {
		t.Errorf("status = %q, want active", m.Status)
	}

	rec = call(env.members.Update, "PUT", "/api/members/"+m.ID, m.ID, `{"email":"asha@example.com"}`)
	decodeBody(t, rec, &m)
	if m.Email == nil || *m.Email != "asha@example.com" {
		t.Errorf("email = %v", m.Email)
	}

	rec = call(env.members.List, "GET", "/api/members", "", "")
	var list []map[string]any
	decodeBody(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list has %d members, want 1", len(list))
	}

	rec = call(env.members.Delete, "DELETE", "/api/members/"+m.ID, m.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	assertError(t, call(env.members.Get, "GET", "/api/members/"+m.ID, m.ID, ""), http.StatusNotFound, "not_found")
}

func TestMemberCreateRequiresFields(t *testing.T) {
	env := setupHandlers(t)

	rec := call(env.members.Create, "POST", "/api/members", "", `{"name":"Asha","house":"A-1","role":"Owner"}`)
	assertError(t, rec, http.StatusBadRequest, "validation")
}

func TestMemberListDegradesToEmptyArray(t *testing.T) {
	env := setupHandlers(t)
	env.db.Close()

	rec := call(env.members.List, "GET", "/api/members", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestVehicleCRUD(t *testing.T) {
	env := setupHandlers(t)

	rec := call(env.vehicles.Create, "POST", "/api/vehicles", "", `{"number":"MH12AB1","type":"Two Wheeler","house":"B-2","registrationDate":"2023-06-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var v struct {
		ID    string  `json:"id"`
		Color *string `json:"color"`
	}
	decodeBody(t, rec, &v)

	rec = call(env.vehicles.Update, "PUT", "/api/vehicles/"+v.ID, v.ID, `{"color":"Blue"}`)
	decodeBody(t, rec, &v)
	if v.Color == nil || *v.Color != "Blue" {
		t.Errorf("color = %v", v.Color)
	}

	rec = call(env.vehicles.Update, "PUT", "/api/vehicles/"+v.ID, v.ID, `{"registrationDate":"June 2023"}`)
	assertError(t, rec, http.StatusBadRequest, "validation")

	rec = call(env.vehicles.Delete, "DELETE", "/api/vehicles/"+v.ID, v.ID, "")
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "Vehicle deleted successfully" {
		t.Errorf("message = %q", body["message"])
	}
}
