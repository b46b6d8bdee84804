package entity

import "time"

type Document struct {
	Base

	Name         string
	Content      string `gorm:"type:longtext"`
	LastEditedAt time.Time
}
