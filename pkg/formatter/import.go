package formatter

import (
	"path/filepath"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/config"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/logger"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/resolver"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/std"
)

// fsExtensions are probed by the fs resolver for extensionless targets.
var fsExtensions = []string{"ts", "tsx", "js", "jsx"}

// newResolver builds the import classifier for a file from the project
// configuration found above searchPath. It reports false when the configuration
// is missing or unusable, in which case the file must be left unchanged.
func newResolver(searchPath string, options config.Options) (resolver.Resolver, bool) {
	switch options.Resolver.Type {
	case config.ResolverFS:
		return newFSResolver(searchPath, options.TSConfigName())
	case config.ResolverPackage, "":
		return newPackageResolver(searchPath, options.BuiltinsAsDependencies)
	default:
		logger.Warn("%s: %q", errors.ErrMsgUnknownResolverType, options.Resolver.Type)
		return nil, false
	}
}

func newFSResolver(searchPath, configName string) (resolver.Resolver, bool) {
	configPath, found := config.FindConfigFile(configName, searchPath)
	if !found {
		logger.Info(errors.InfoMsgConfigNotFound, configName, searchPath)
		return nil, false
	}

	tsconfig, err := config.LoadTSConfig(configPath)
	if err != nil {
		logger.Info(errors.InfoMsgConfigUnusable, configPath, err)
		return nil, false
	}

	logger.Debug("resolving imports with %s", configPath)
	return resolver.NewFSResolver(filepath.Dir(configPath), tsconfig.FSParams(fsExtensions)), true
}

func newPackageResolver(searchPath string, builtins bool) (resolver.Resolver, bool) {
	manifestPath, found := config.FindConfigFile(config.PackageJSONName, searchPath)
	if !found {
		logger.Info(errors.InfoMsgConfigNotFound, config.PackageJSONName, searchPath)
		return nil, false
	}

	dependencies, err := config.LoadDependencies(manifestPath)
	if err != nil {
		logger.Info(errors.InfoMsgConfigUnusable, manifestPath, err)
		return nil, false
	}
	if builtins {
		dependencies = append(dependencies, std.Names()...)
	}

	logger.Debug("resolving imports with %s (%d dependencies)", manifestPath, len(dependencies))
	return resolver.NewPackageResolver(dependencies), true
}
