package config

type BootstrapConfig interface {
	GetDefaultCenterID() string
	GetDefaultCenterName() string
	GetAdminDisplayName() string
	GetAdminLoginHandle() string
	GetAdminPassword() string
}

// Bootstrap describes the center and super admin created on an empty database
type Bootstrap struct {
	CenterID         string `env:"DEFAULT_CENTER_ID" envDefault:"main"`
	CenterName       string `env:"DEFAULT_CENTER_NAME" envDefault:"Main Center"`
	AdminDisplayName string `env:"ADMIN_DISPLAY_NAME" envDefault:"Super Admin"`
	AdminLoginHandle string `env:"ADMIN_LOGIN_HANDLE" envDefault:"admin@hifz.local"`
	AdminPassword    string `env:"ADMIN_PASSWORD"` // Generated and logged once when empty
}

var _ BootstrapConfig = Bootstrap{}

func (b Bootstrap) GetDefaultCenterID() string {
	return b.CenterID
}

func (b Bootstrap) GetDefaultCenterName() string {
	return b.CenterName
}

func (b Bootstrap) GetAdminDisplayName() string {
	return b.AdminDisplayName
}

func (b Bootstrap) GetAdminLoginHandle() string {
	return b.AdminLoginHandle
}

func (b Bootstrap) GetAdminPassword() string {
	return b.AdminPassword
}
