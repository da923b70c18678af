package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/util"
)

// ProfileView 档案接口的响应结构，等级称号和进度由等级曲线现算，不落库
type ProfileView struct {
	Profile       *model.LearnerProfile      `json:"profile"`
	LevelTitle    string                     `json:"levelTitle"`
	LevelProgress gamification.LevelProgress `json:"levelProgress"`
}

type ProfileUpdateInput struct {
	DisplayName  string `json:"displayName"`
	AvatarPreset string `json:"avatarPreset"`
}

type ProfileService struct {
	ProfileRepo *repository.LearnerProfileRepository
	UserRepo    *repository.UserRepository
	Engines     *EngineHolder
	Storage     *StorageService
}

func NewProfileService(profileRepo *repository.LearnerProfileRepository, userRepo *repository.UserRepository, engines *EngineHolder, storage *StorageService) *ProfileService {
	return &ProfileService{
		ProfileRepo: profileRepo,
		UserRepo:    userRepo,
		Engines:     engines,
		Storage:     storage,
	}
}

// GetProfile 返回档案视图，档案不存在时惰性创建
func (s *ProfileService) GetProfile(userID uint) (*ProfileView, error) {
	profile, err := s.ProfileRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if profile.DisplayName == "" {
		if user, err := s.UserRepo.FindByID(userID); err == nil {
			profile.DisplayName = user.Name
		}
	}

	curve := s.Engines.Engine().Curve()
	return &ProfileView{
		Profile:       profile,
		LevelTitle:    curve.LevelTitle(profile.Level),
		LevelProgress: curve.ProgressInLevel(profile.TotalGp, profile.Level),
	}, nil
}

// UpdateProfile 只允许修改展示名和预设头像，进度字段由推进引擎维护
func (s *ProfileService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.LearnerProfile, error) {
	profile, err := s.ProfileRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		profile.DisplayName = input.DisplayName
	}
	if input.AvatarPreset != "" {
		profile.AvatarPreset = input.AvatarPreset
	}

	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 上传自定义头像，存到用户记录上
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("unsupported avatar format: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d/%s%s", userID, model.GenerateUUID(), ext)
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, util.MimeImage+strings.TrimPrefix(ext, "."))
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return url, nil
}
