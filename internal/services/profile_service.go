package services

import (
	"errors"
	"fmt"

	"github.com/hydroapp/hydro-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrWeightOutOfRange = errors.New("weight must be between 20 and 300 kg")
	ErrFactorOutOfRange = errors.New("ml-per-kg factor must be between 30 and 35")
	ErrGoalOutOfRange   = errors.New("goal must be between 500 and 10000 ml")
)

const (
	minWeightKg = 20
	maxWeightKg = 300
	minMlPerKg  = 30
	maxMlPerKg  = 35
	minGoalML   = 500
	maxGoalML   = 10000
)

type ProfileService struct {
	db             *gorm.DB
	defaultMlPerKg int
}

func NewProfileService(db *gorm.DB, defaultMlPerKg int) *ProfileService {
	return &ProfileService{db: db, defaultMlPerKg: defaultMlPerKg}
}

// EnsureUser creates the profile row on first contact. Username and first
// name are refreshed on every call since Telegram users rename themselves.
func (s *ProfileService) EnsureUser(tgID int64, username, firstName string) (*models.User, error) {
	user := models.User{
		TgID:      tgID,
		Username:  username,
		FirstName: firstName,
		MlPerKg:   s.defaultMlPerKg,
	}
	err := s.db.Where(models.User{TgID: tgID}).
		Attrs(models.User{MlPerKg: s.defaultMlPerKg}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %d: %w", tgID, err)
	}

	if (username != "" && user.Username != username) ||
		(firstName != "" && user.FirstName != firstName) {
		if username != "" {
			user.Username = username
		}
		if firstName != "" {
			user.FirstName = firstName
		}
		if err := s.db.Model(&user).
			Updates(map[string]interface{}{"username": user.Username, "first_name": user.FirstName}).Error; err != nil {
			return nil, fmt.Errorf("failed to update user names: %w", err)
		}
	}
	return &user, nil
}

func (s *ProfileService) GetProfile(tgID int64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "tg_id = ?", tgID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile %d: %w", tgID, err)
	}
	return &user, nil
}

func (s *ProfileService) SetWeight(tgID int64, weightKg int) (*models.User, error) {
	if weightKg < minWeightKg || weightKg > maxWeightKg {
		return nil, ErrWeightOutOfRange
	}
	user, err := s.GetProfile(tgID)
	if err != nil {
		return nil, err
	}
	user.WeightKg = &weightKg
	user.GoalML = GoalInEffect(user)
	if err := s.db.Model(user).
		Updates(map[string]interface{}{"weight_kg": weightKg, "goal_ml": user.GoalML}).Error; err != nil {
		return nil, fmt.Errorf("failed to set weight: %w", err)
	}
	return user, nil
}

func (s *ProfileService) SetFactor(tgID int64, mlPerKg int) (*models.User, error) {
	if mlPerKg < minMlPerKg || mlPerKg > maxMlPerKg {
		return nil, ErrFactorOutOfRange
	}
	user, err := s.GetProfile(tgID)
	if err != nil {
		return nil, err
	}
	user.MlPerKg = mlPerKg
	user.GoalML = GoalInEffect(user)
	if err := s.db.Model(user).
		Updates(map[string]interface{}{"ml_per_kg": mlPerKg, "goal_ml": user.GoalML}).Error; err != nil {
		return nil, fmt.Errorf("failed to set factor: %w", err)
	}
	return user, nil
}

// SetGoal records an explicit daily goal. An explicit goal wins over the
// weight formula until it is replaced by another SetGoal. See GoalInEffect.
func (s *ProfileService) SetGoal(tgID int64, goalML int) (*models.User, error) {
	if goalML < minGoalML || goalML > maxGoalML {
		return nil, ErrGoalOutOfRange
	}
	user, err := s.GetProfile(tgID)
	if err != nil {
		return nil, err
	}
	user.GoalML = goalML
	user.GoalExplicit = true
	if err := s.db.Model(user).
		Updates(map[string]interface{}{"goal_ml": goalML, "goal_explicit": true}).Error; err != nil {
		return nil, fmt.Errorf("failed to set goal: %w", err)
	}
	return user, nil
}

// RecomputeGoal re-derives and persists the formula goal when no explicit
// override is set. Returns the goal now in effect either way.
func (s *ProfileService) RecomputeGoal(tgID int64) (int, error) {
	user, err := s.GetProfile(tgID)
	if err != nil {
		return 0, err
	}
	goal := GoalInEffect(user)
	if goal != user.GoalML {
		if err := s.db.Model(user).Update("goal_ml", goal).Error; err != nil {
			return 0, fmt.Errorf("failed to persist goal: %w", err)
		}
	}
	return goal, nil
}

// GoalInEffect resolves the daily goal: explicit override if set, else
// weight x factor, else 0 (a zero goal is never met). Stored factors from
// legacy rows are clamped to the valid band before use.
func GoalInEffect(user *models.User) int {
	if user.GoalExplicit && user.GoalML > 0 {
		return user.GoalML
	}
	if user.WeightKg != nil && *user.WeightKg > 0 {
		return *user.WeightKg * clampFactor(user.MlPerKg)
	}
	return 0
}

func clampFactor(f int) int {
	if f < minMlPerKg {
		return minMlPerKg
	}
	if f > maxMlPerKg {
		return maxMlPerKg
	}
	return f
}
