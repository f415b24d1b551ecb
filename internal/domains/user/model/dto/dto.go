package dto

import (
	"time"

	"parking/internal/domains/user/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	gModel "parking/shared/model"
	"parking/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email      string  `json:"email"                 validate:"required,email"`
	Password   string  `json:"password"              validate:"required,min=8"`
	Level      string  `json:"level"                 validate:"omitempty,oneof=admin user"`
	FullName   *string `json:"full_name,omitempty"   validate:"omitempty,min=2,max=100"`
	IsVerified *bool   `json:"is_verified,omitempty"`
}

func (r *CreateUserRequest) ToModel(username, hashedPassword string, now time.Time) model.User {
	level := r.Level
	if level == "" {
		level = constant.RoleUser
	}

	isVerified := false
	if r.IsVerified != nil {
		isVerified = *r.IsVerified
	}

	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		Level:      level,
		FullName:   r.FullName,
		IsVerified: isVerified,
		Active:     true,
		Metadata:   gModel.NewMetadata(now, username),
	}
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Level      string  `json:"level"`
	FullName   *string `json:"full_name,omitempty"`
	IsVerified bool    `json:"is_verified"`
	LastLogin  *string `json:"last_login,omitempty"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.IsVerified = model.IsVerified
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}
}

// UpdateUserRequest is the admin view of a user: role and account flags.
type UpdateUserRequest struct {
	Level      *string `db:"level"       json:"level,omitempty"       validate:"omitempty,oneof=admin user"`
	FullName   *string `db:"full_name"   json:"full_name,omitempty"   validate:"omitempty,min=2,max=100"`
	IsVerified *bool   `db:"is_verified" json:"is_verified,omitempty"`
	Active     *bool   `db:"active"      json:"active,omitempty"`
}

type UpdateProfileRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
