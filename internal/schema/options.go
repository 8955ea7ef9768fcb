package schema

// Names of the global options.
const (
	OptCompressionLevel    = "compression-level"
	OptFormat              = "format"
	OptInput               = "input"
	OptLimitInputPixels    = "limit-input-pixels"
	OptOutput              = "output"
	OptProgressive         = "progressive"
	OptQuality             = "quality"
	OptSequentialRead      = "sequential-read"
	OptAdaptiveFiltering   = "adaptive-filtering"
	OptChromaSubsampling   = "chroma-subsampling"
	OptOptimise            = "optimise"
	OptOptimiseScans       = "optimise-scans"
	OptOvershootDeringing  = "overshoot-deringing"
	OptTrellisQuantisation = "trellis-quantisation"
	OptWithMetadata        = "with-metadata"
	OptConcurrency         = "concurrency"
	OptGraph               = "graph"
	OptVerbose             = "verbose"
	OptHelp                = "help"
	OptVersion             = "version"
)

// DefaultLimitInputPixels is the default pixel count limit, 0x3FFF squared.
const DefaultLimitInputPixels = 0x3FFF * 0x3FFF

// FormatInput keeps the format of the input image.
const FormatInput = "input"

// GlobalOptions returns the option table of the program.
func GlobalOptions() []Descriptor {
	return []Descriptor{
		{
			Name:               OptCompressionLevel,
			Short:              "c",
			Type:               Number,
			Group:              GroupGlobal,
			Description:        "zlib compression level",
			DefaultDescription: "6",
			Global:             true,
		},
		{
			Name:        OptFormat,
			Short:       "f",
			Type:        String,
			Group:       GroupGlobal,
			Description: "Force output to a given format",
			Default:     FormatInput,
			Global:      true,
			Choices:     []string{FormatInput, "jpeg", "jpg", "png", "gif", "tiff", "bmp", "webp"},
		},
		{
			Name:               OptInput,
			Short:              "i",
			Type:               Array,
			Group:              GroupGlobal,
			Description:        "Path to (an) image file(s)",
			DefaultDescription: "stdin",
			Global:             true,
			Nargs:              1,
			DemandWhenTerminal: Stdin,
		},
		{
			Name:               OptLimitInputPixels,
			Short:              "l",
			Type:               Number,
			Group:              GroupGlobal,
			Description:        "Do not process input images where the number of pixels (width x height) exceeds this limit",
			DefaultDescription: "0x3FFF x 0x3FFF",
			Global:             true,
		},
		{
			Name:               OptOutput,
			Short:              "o",
			Type:               String,
			Group:              GroupGlobal,
			Description:        "Directory, file or {name} template to write the image files to",
			DefaultDescription: "stdout",
			Global:             true,
			DemandWhenTerminal: Stdout,
		},
		{
			Name:        OptProgressive,
			Short:       "p",
			Type:        Boolean,
			Group:       GroupGlobal,
			Description: "Use progressive (interlace) scan",
			Global:      true,
		},
		{
			Name:               OptQuality,
			Short:              "q",
			Type:               Number,
			Group:              GroupGlobal,
			Description:        "Quality",
			DefaultDescription: "80",
			Global:             true,
		},
		{
			Name:        OptSequentialRead,
			Type:        Boolean,
			Group:       GroupGlobal,
			Description: "Read the input sequentially",
			Global:      true,
		},
		{
			Name:        OptAdaptiveFiltering,
			Type:        Boolean,
			Group:       GroupOptimization,
			Description: "Use adaptive row filtering",
			Global:      true,
		},
		{
			Name:               OptChromaSubsampling,
			Type:               String,
			Group:              GroupOptimization,
			Description:        "Set to 4:4:4 to prevent chroma subsampling when quality <= 90",
			DefaultDescription: "4:2:0",
			Global:             true,
			Choices:            []string{"4:2:0", "4:4:4"},
		},
		{
			Name:        OptOptimise,
			Aliases:     []string{"optimize"},
			Type:        Boolean,
			Group:       GroupOptimization,
			Description: "Apply optimise-scans, overshoot-deringing, and trellis-quantisation",
			Global:      true,
		},
		{
			Name:        OptOptimiseScans,
			Aliases:     []string{"optimize-scans"},
			Type:        Boolean,
			Group:       GroupOptimization,
			Description: "Optimise progressive scans",
			Global:      true,
			Implies:     OptProgressive,
		},
		{
			Name:        OptOvershootDeringing,
			Type:        Boolean,
			Group:       GroupOptimization,
			Description: "Apply overshoot deringing",
			Global:      true,
		},
		{
			Name:        OptTrellisQuantisation,
			Type:        Boolean,
			Group:       GroupOptimization,
			Description: "Apply trellis quantisation",
			Global:      true,
		},
		{
			Name:        OptWithMetadata,
			Short:       "m",
			Type:        Boolean,
			Group:       GroupMisc,
			Description: "Include all metadata (EXIF, XMP, IPTC) from the input image in the output image",
			Global:      true,
		},
		{
			Name:               OptConcurrency,
			Type:               Number,
			Group:              GroupMisc,
			Description:        "Number of input files processed at the same time",
			DefaultDescription: "number of CPUs",
			Global:             true,
		},
		{
			Name:        OptGraph,
			Type:        String,
			Group:       GroupMisc,
			Description: "Write the operation queue as a Graphviz DOT file",
			Global:      true,
		},
		{
			Name:        OptVerbose,
			Type:        Boolean,
			Group:       GroupMisc,
			Description: "Log the operation queue and the duration of every operation",
			Global:      true,
		},
		{
			Name:        OptHelp,
			Short:       "h",
			Type:        Boolean,
			Group:       GroupMisc,
			Description: "Show help",
			Global:      true,
		},
		{
			Name:        OptVersion,
			Type:        Boolean,
			Group:       GroupMisc,
			Description: "Show version number",
			Global:      true,
		},
	}
}
