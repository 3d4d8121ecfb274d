package taxonomy

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"betnotes/internal/models"
)

// Store is the only component that touches the taxonomy tables.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) DeleteAll() error {
	return s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.TaxonomyNode{}).Error
}

func (s *Store) Insert(node models.TaxonomyNode) error {
	return s.DB.Create(&node).Error
}

func (s *Store) FindAll() ([]models.TaxonomyNode, error) {
	var nodes []models.TaxonomyNode
	if err := s.DB.Order("id asc").Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *Store) Count() (int, error) {
	var n int64
	if err := s.DB.Model(&models.TaxonomyNode{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) CountByModelType() (map[string]int, error) {
	var rows []struct {
		ModelType string
		Total     int
	}
	err := s.DB.Model(&models.TaxonomyNode{}).
		Select("model_type, count(*) as total").
		Group("model_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ModelType] = row.Total
	}
	return out, nil
}

func (s *Store) SaveRun(run models.SyncRun) error {
	return s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&run).Error
}

func (s *Store) LastRun() (*models.SyncRun, error) {
	var run models.SyncRun
	tx := s.DB.Order("created_at desc").Limit(1).Find(&run)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return &run, nil
}
