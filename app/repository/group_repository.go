package repository

import (
	"errors"

	"github.com/TorbenVoss/MemberFox/app/models"
	"gorm.io/gorm"
)

// groupRepository implements the GroupRepository interface
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create creates a new group in the database
func (r *groupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// GetByID retrieves a group with its permissions preloaded
func (r *groupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Preload("Permissions").First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetUserGroupIDs returns the ids of the groups a user currently belongs to
func (r *groupRepository) GetUserGroupIDs(userID uint) ([]uint, error) {
	var user models.User
	if err := r.db.Preload("Groups").First(&user, userID).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(user.Groups))
	for _, g := range user.Groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// ReplaceUserGroups sets the user's group memberships to exactly the given set
func (r *groupRepository) ReplaceUserGroups(userID uint, groupIDs []uint) error {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return err
	}
	groups := make([]models.Group, 0, len(groupIDs))
	if len(groupIDs) > 0 {
		if err := r.db.Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return err
		}
	}
	return r.db.Model(&user).Association("Groups").Replace(groups)
}

// ReplaceGroupPermissions sets a group's permission set to exactly the given
// permissions (full replace, not union).
func (r *groupRepository) ReplaceGroupPermissions(groupID uint, permissions []models.Permission) error {
	var group models.Group
	if err := r.db.First(&group, groupID).Error; err != nil {
		return err
	}
	return r.db.Model(&group).Association("Permissions").Replace(permissions)
}

// GetOrCreatePermission looks a permission up by codename, creating it when absent
func (r *groupRepository) GetOrCreatePermission(codename, name string) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.Where("codename = ?", codename).First(&perm).Error
	if err == nil {
		return &perm, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	perm = models.Permission{Codename: codename, Name: name}
	if err := r.db.Create(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}
