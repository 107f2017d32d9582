package application

import (
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

// PhoneDTO is the request/response shape of a phone.
type PhoneDTO struct {
	Number      string `json:"number"`
	CityCode    string `json:"citycode"`
	CountryCode string `json:"countrycode"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phones   []PhoneDTO
}

// UserResponse is the sanitized view of a user. The bcrypt hash is exposed only as encryptedPassword.
type UserResponse struct {
	ID                string     `json:"id"`
	Created           time.Time  `json:"created"`
	Modified          time.Time  `json:"modified"`
	LastLogin         time.Time  `json:"lastLogin"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	EncryptedPassword string     `json:"encryptedPassword"`
	Token             string     `json:"token"`
	IsActive          bool       `json:"isActive"`
	Phones            []PhoneDTO `json:"phones"`
}

func toUserEntity(in RegisterInput) *entity.User {
	phones := make([]entity.Phone, 0, len(in.Phones))
	for _, p := range in.Phones {
		phones = append(phones, entity.Phone{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return &entity.User{
		Name:   in.Name,
		Email:  in.Email,
		Phones: phones,
	}
}

func toUserResponse(u *entity.User) *UserResponse {
	phones := make([]PhoneDTO, 0, len(u.Phones))
	for _, p := range u.Phones {
		phones = append(phones, PhoneDTO{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return &UserResponse{
		ID:                u.ID,
		Created:           u.Created,
		Modified:          u.Modified,
		LastLogin:         u.LastLogin,
		Name:              u.Name,
		Email:             u.Email,
		EncryptedPassword: u.Password,
		Token:             u.Token,
		IsActive:          u.IsActive,
		Phones:            phones,
	}
}
