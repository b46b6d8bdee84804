package model

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateUserResponse struct {
	User
}

type GetUserRequest struct {
	Email string `json:"email"`
}

type GetUserResponse struct {
	User
}
