package types

import "github.com/u2giants/popdam2/pkg/browse"

// ListPropertiesResponse 作品列表响应（名称升序）.
type ListPropertiesResponse struct {
	Properties []browse.Property `json:"properties"`
}

// ListCharactersRequest 角色列表查询参数.
type ListCharactersRequest struct {
	// PropertyID 可选：限定所属作品
	PropertyID string `form:"property_id" json:"property_id" rule:"omitempty,max=64"`
}

// ListCharactersResponse 角色列表响应（名称升序）.
type ListCharactersResponse struct {
	Characters []browse.Character `json:"characters"`
}

// CreatePropertyRequest 创建作品请求.
type CreatePropertyRequest struct {
	Name   string `json:"name" rule:"required,max=255"`
	Studio string `json:"studio" rule:"omitempty,max=255"`
}

// UpdatePropertyRequest 更新作品请求（全量替换）.
type UpdatePropertyRequest struct {
	Name   string `json:"name" rule:"required,max=255"`
	Studio string `json:"studio" rule:"omitempty,max=255"`
}

// PropertyResponse 单个作品响应.
type PropertyResponse struct {
	Property browse.Property `json:"property"`
}

// CreateCharacterRequest 创建角色请求.
type CreateCharacterRequest struct {
	Name       string   `json:"name" rule:"required,max=255"`
	Aliases    []string `json:"aliases" rule:"omitempty,dive,max=255"`
	PropertyID string   `json:"property_id" rule:"omitempty,max=64"`
}

// UpdateCharacterRequest 更新角色请求（全量替换）.
type UpdateCharacterRequest struct {
	Name       string   `json:"name" rule:"required,max=255"`
	Aliases    []string `json:"aliases" rule:"omitempty,dive,max=255"`
	PropertyID string   `json:"property_id" rule:"omitempty,max=64"`
}

// CharacterResponse 单个角色响应.
type CharacterResponse struct {
	Character browse.Character `json:"character"`
}
