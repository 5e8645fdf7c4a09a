package mcp

// ManifestTool 探索清單中的工具
type ManifestTool struct {
	Name   string   `json:"name"`
	Method string   `json:"method"`
	Path   string   `json:"path"`
	Params []string `json:"params,omitempty"`
	Auth   string   `json:"auth,omitempty"`
}

// ManifestAuth 探索清單中的認證資訊
type ManifestAuth struct {
	Type         string  `json:"type"`
	ValidatePath string  `json:"validate_path"`
	Phone        *string `json:"phone"`
}

// Manifest GET /mcp 回傳的探索清單
type Manifest struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Status    string         `json:"status"`
	Transport string         `json:"transport"`
	Tools     []ManifestTool `json:"tools"`
	Auth      ManifestAuth   `json:"auth"`
}

// NewManifest 建立探索清單；phone 為 nil 表示未帶或帶了無效的 token
func NewManifest(name, version string, phone *string) Manifest {
	return Manifest{
		Name:      name,
		Version:   version,
		Status:    "ok",
		Transport: "/mcp/stream",
		Tools: []ManifestTool{
			{Name: "get_recipe", Method: "GET", Path: "/get_recipe", Params: []string{"user_id", "dish"}},
			{Name: "recommend", Method: "GET", Path: "/recommend", Params: []string{"dish", "diet", "course", "top_n"}},
			{Name: "get_locality", Method: "GET", Path: "/get_locality", Params: []string{"dish", "city"}},
			{Name: "validate", Method: "GET", Path: "/validate", Auth: "Bearer Base64(phone)"},
		},
		Auth: ManifestAuth{
			Type:         "bearer_base64_phone",
			ValidatePath: "/validate",
			Phone:        phone,
		},
	}
}
