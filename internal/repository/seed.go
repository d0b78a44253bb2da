package repository

import (
	"embed"
	"encoding/json"
	"fmt"

	"MindBalance/internal/model"
)

//go:embed seed/*.json
var seedFS embed.FS

type usersFile struct {
	Users []model.User `json:"users"`
}

type checkInsFile struct {
	CheckIns []model.CheckIn `json:"checkins"`
}

type resourcesFile struct {
	Resources  []model.Resource `json:"resources"`
	Categories []string         `json:"categories"`
}

// SeedUsers 内置的演示用户
func SeedUsers() ([]model.User, error) {
	var f usersFile
	if err := readSeed("seed/users.json", &f); err != nil {
		return nil, err
	}
	return f.Users, nil
}

// SeedResources 内置的资源库与分类
func SeedResources() ([]model.Resource, []string, error) {
	var f resourcesFile
	if err := readSeed("seed/resources.json", &f); err != nil {
		return nil, nil, err
	}
	return f.Resources, f.Categories, nil
}

func readSeed(name string, v interface{}) error {
	data, err := seedFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read seed %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode seed %s: %w", name, err)
	}
	return nil
}
