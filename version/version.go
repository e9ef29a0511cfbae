// Package version 提供 lightaichat 的版本信息。
// 构建时通过 -ldflags "-X github.com/bebetterst/lightAIchat/version.gitVersion=..." 注入；
// 未注入时回退到 Go 工具链写入的 module/vcs 构建信息。
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"
)

const unknownVersion = "v0.0.0-dev"

var (
	// gitVersion 是语义化的版本号，格式为 vMAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
	gitVersion = ""
	// buildDate 是 ISO8601 格式的构建时间, $(date -u +'%Y-%m-%dT%H:%M:%SZ') 命令的输出
	buildDate = ""
	// gitCommit 是 Git 的 SHA1 值，$(git rev-parse HEAD) 命令的输出
	gitCommit = ""
	// gitTreeState 代表构建时 Git 仓库的状态，值为 clean 或 dirty
	gitTreeState = ""
)

// Info 包含了版本信息
type Info struct {
	GitVersion   string `json:"gitVersion" yaml:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty" yaml:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion    string `json:"goVersion" yaml:"goVersion"`
	Platform     string `json:"platform" yaml:"platform"`
}

// String 返回人性化的版本信息字符串
func (info Info) String() string {
	if info.GitTreeState == "dirty" {
		return info.GitVersion + "-dirty"
	}
	return info.GitVersion
}

// ToJSON 以格式化的 JSON 格式返回版本信息
func (info Info) ToJSON() (string, error) {
	s, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

// ToYAML 以 YAML 格式返回版本信息
func (info Info) ToYAML() (string, error) {
	s, err := yaml.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

// Text 以对齐的表格文本返回版本信息
func (info Info) Text() string {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	table.AddRow("version:", info.String())
	if info.GitCommit != "" {
		table.AddRow("gitCommit:", info.GitCommit)
	}
	if info.BuildDate != "" {
		table.AddRow("buildDate:", info.BuildDate)
	}
	table.AddRow("goVersion:", info.GoVersion)
	table.AddRow("platform:", info.Platform)
	return table.String()
}

// Format 按输出格式渲染：text、json、yaml 或 short
func (info Info) Format(output string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "text":
		return info.Text(), nil
	case "json":
		return info.ToJSON()
	case "yaml", "yml":
		return info.ToYAML()
	case "short":
		return info.String(), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml or short)", output)
	}
}

// UserAgent 返回 HTTP 请求使用的 User-Agent，形如 lightaichat/v1.2.3 (linux/amd64)
func UserAgent() string {
	info := Get()
	return fmt.Sprintf("lightaichat/%s (%s)", info.String(), info.Platform)
}

// Get 返回当前二进制的版本信息
func Get() Info {
	info := Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	if info.GitVersion == "" {
		info.GitVersion = unknownVersion
	}
	return info
}

// fillFromBuildInfo 只补全 ldflags 未注入的字段
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.GitVersion == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.GitVersion = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			if info.GitTreeState == "" {
				if s.Value == "true" {
					info.GitTreeState = "dirty"
				} else {
					info.GitTreeState = "clean"
				}
			}
		}
	}
}
