package dto

type EntityInfo struct {
	Name  string `json:"name"`
	Table string `json:"table"`
	Count int64  `json:"count"`
}
