package dto

// Data Transfer Objects for the user and auth endpoints.

// RegisterRequest: payload for user registration. Anything else in the body
// (an id, an inactive flag) is deliberately ignored.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest: payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest: payload for self-service profile update. Username is the
// only self-updatable field.
type UpdateUserRequest struct {
	Username string `json:"username"`
}

// LoginResponse: exactly three fields, in this order.
type LoginResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// UserResponse: public view of an active user.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserPage: paginated listing response.
type UserPage struct {
	Content   []UserResponse `json:"content"`
	Page      int            `json:"page"`
	Size      int            `json:"size"`
	TotalPage int            `json:"totalPage"`
}

// MessageResponse: localized one-line outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
