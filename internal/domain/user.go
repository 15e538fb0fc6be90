package domain

type Role string

const (
	RoleRenter Role = "RENTER"
	RoleStaff  Role = "STAFF"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID           int32  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	DOB          string `json:"dob,omitempty"`
	Address      string `json:"address,omitempty"`

	// KYC documents. Image fields hold opaque storage paths.
	NationalID         string `json:"national_id,omitempty"`
	LicenseNumber      string `json:"license_number,omitempty"`
	NationalIDImage    string `json:"national_id_image,omitempty"`
	DriverLicenseImage string `json:"driver_license_image,omitempty"`

	IsVerified bool   `json:"is_verified"`
	VerifyNote string `json:"verify_note,omitempty"`
	Risky      bool   `json:"risky"`

	Role Role `json:"role"`
	// StationID is set for staff assigned to a pickup point.
	StationID *int32 `json:"station_id,omitempty"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

// KYCComplete reports whether the profile carries everything staff need to
// approve verification: phone, both document numbers and both images.
func (u *User) KYCComplete() bool {
	return u.Phone != "" &&
		u.NationalID != "" &&
		u.LicenseNumber != "" &&
		u.NationalIDImage != "" &&
		u.DriverLicenseImage != ""
}

func (u *User) IsStaffOrAdmin() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
