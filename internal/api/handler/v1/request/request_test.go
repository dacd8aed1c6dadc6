package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequestValidate(t *testing.T) {
	valid := SignupRequest{
		Email:           "admin@example.com",
		Password:        "Password123",
		ConfirmPassword: "Password123",
		Name:            "Admin",
	}

	tests := []struct {
		name    string
		mutate  func(req *SignupRequest)
		wantErr bool
	}{
		{"valid", func(req *SignupRequest) {}, false},
		{"bad email", func(req *SignupRequest) { req.Email = "not-an-email" }, true},
		{"missing name", func(req *SignupRequest) { req.Name = "" }, true},
		{"password mismatch", func(req *SignupRequest) { req.ConfirmPassword = "Different123" }, true},
		{"password too short", func(req *SignupRequest) { req.Password = "Ab1"; req.ConfirmPassword = "Ab1" }, true},
		{"password without digits", func(req *SignupRequest) { req.Password = "Passwords"; req.ConfirmPassword = "Passwords" }, true},
		{"password without letters", func(req *SignupRequest) { req.Password = "12345678"; req.ConfirmPassword = "12345678" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRaffleRequestValidate(t *testing.T) {
	valid := CreateRaffleRequest{
		Title:        "Rifa Solidária",
		Description:  "prize draw",
		TotalNumbers: 100,
		Price:        5.0,
		PixName:      "Ana",
		PixKey:       "ana@example.com",
	}

	tests := []struct {
		name    string
		mutate  func(req *CreateRaffleRequest)
		wantErr bool
	}{
		{"valid", func(req *CreateRaffleRequest) {}, false},
		{"minimum pool size", func(req *CreateRaffleRequest) { req.TotalNumbers = 10 }, false},
		{"maximum pool size", func(req *CreateRaffleRequest) { req.TotalNumbers = 1000 }, false},
		{"missing title", func(req *CreateRaffleRequest) { req.Title = "" }, true},
		{"pool too small", func(req *CreateRaffleRequest) { req.TotalNumbers = 9 }, true},
		{"pool too large", func(req *CreateRaffleRequest) { req.TotalNumbers = 1001 }, true},
		{"zero price", func(req *CreateRaffleRequest) { req.Price = 0 }, true},
		{"missing pix key", func(req *CreateRaffleRequest) { req.PixKey = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateRaffleRequestValidate(t *testing.T) {
	title := "New title"
	emptyTitle := ""
	price := 2.5
	badPrice := 0.0

	tests := []struct {
		name    string
		req     UpdateRaffleRequest
		wantErr bool
	}{
		{"empty patch passes validation", UpdateRaffleRequest{}, false},
		{"title only", UpdateRaffleRequest{Title: &title}, false},
		{"price only", UpdateRaffleRequest{Price: &price}, false},
		{"empty title", UpdateRaffleRequest{Title: &emptyTitle}, true},
		{"zero price", UpdateRaffleRequest{Price: &badPrice}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReserveRequestValidate(t *testing.T) {
	valid := ReserveRequest{
		Numbers:    []int{3, 4},
		BuyerName:  "Ana Souza",
		BuyerPhone: "+55 62 99999-9999",
	}

	tests := []struct {
		name    string
		mutate  func(req *ReserveRequest)
		wantErr bool
	}{
		{"valid", func(req *ReserveRequest) {}, false},
		{"plain digits phone", func(req *ReserveRequest) { req.BuyerPhone = "62999999999" }, false},
		{"no numbers", func(req *ReserveRequest) { req.Numbers = nil }, true},
		{"missing buyer name", func(req *ReserveRequest) { req.BuyerName = "" }, true},
		{"phone with letters", func(req *ReserveRequest) { req.BuyerPhone = "not-a-phone" }, true},
		{"phone too short", func(req *ReserveRequest) { req.BuyerPhone = "1234567" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBulkTicketsRequestValidate(t *testing.T) {
	assert.NoError(t, (&BulkTicketsRequest{TicketIDs: []uint{1, 2}}).Validate())
	assert.Error(t, (&BulkTicketsRequest{}).Validate())
}

func TestConfirmManualRequestValidate(t *testing.T) {
	assert.NoError(t, (&ConfirmManualRequest{Number: 7, BuyerName: "Carlos"}).Validate())
	assert.Error(t, (&ConfirmManualRequest{Number: 0, BuyerName: "Carlos"}).Validate())
	assert.Error(t, (&ConfirmManualRequest{Number: 7, BuyerName: ""}).Validate())
}
