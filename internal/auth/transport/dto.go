package transport

// LoginRequest is the employee sign-in form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_tld"`
	Password string `json:"password" validate:"required,min=8"`
}

// EmployeeResponse is the wire shape of an employee profile.
type EmployeeResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse carries the access token and the signed-in profile.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
	Employee    EmployeeResponse `json:"employee"`
}
