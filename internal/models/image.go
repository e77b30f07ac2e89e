package models

const (
	FolderProducts = "products"
	FolderUsers    = "users"
)

// HasImage is implemented by entities that own at most one stored image file.
type HasImage interface {
	ImageName() string
	SetImageName(name string)
	ImageFolder() string
}

func (p *Product) ImageName() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

func (p *Product) SetImageName(name string) {
	if name == "" {
		p.Image = nil
		return
	}
	p.Image = &name
}

func (p *Product) ImageFolder() string { return FolderProducts }

func (u *User) ImageName() string {
	if u.ProfileImage == nil {
		return ""
	}
	return *u.ProfileImage
}

func (u *User) SetImageName(name string) {
	if name == "" {
		u.ProfileImage = nil
		return
	}
	u.ProfileImage = &name
}

func (u *User) ImageFolder() string { return FolderUsers }

// ImageURL is the public path of a stored image, or "" when there is none.
func ImageURL(e HasImage) string {
	if e.ImageName() == "" {
		return ""
	}
	return "/static/" + e.ImageFolder() + "/" + e.ImageName()
}
