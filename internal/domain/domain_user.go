package domain

// User 当前会话用户
type User struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// Clone 返回用户副本
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
