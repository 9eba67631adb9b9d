package domain

// Clustering defaults shared by the CLI, config loader and MCP server.
const (
	// DefaultClusterMethod is used when neither flags nor config pick one.
	DefaultClusterMethod = ClusterMethodSingle

	// DefaultEarlyStop keeps the single-linkage shortcut that stops reading
	// once every label declared by a self pair is assigned. It relies on
	// self pairs preceding the cross pairs that join them.
	DefaultEarlyStop = true

	// DefaultConfigFileName is discovered by walking up from the working directory.
	DefaultConfigFileName = ".distclust.toml"

	// EnvPrefix prefixes environment overrides, e.g. DISTCLUST_CUTOFF.
	EnvPrefix = "DISTCLUST"

	// StdinPath stands for standard input in path lists.
	StdinPath = "-"
)
