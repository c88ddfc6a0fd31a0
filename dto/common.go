package dto

// PageQuery binds ?page=&limit=.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// UserInfo is the public face of a user inside other resources.
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
