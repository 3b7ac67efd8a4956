package db

import (
	"context"

	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CuratesStudent reports whether curatorID curates any group the student
// belongs to. This is the relational half of curator slot eligibility.
func (r *GroupRepository) CuratesStudent(ctx context.Context, curatorID, studentID string) (bool, error) {
	if r.db == nil {
		return false, errDBUnavailable
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table("groups").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("groups.curator_id = ? AND group_members.student_id = ?", curatorID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
