package lasercavity

var (
	Debug = false // set to true for sweep statistics
	PNG   = false // set to true to save the stability map as a 16-bit PNG sequence instead of a GIF
	// Compile time checks that every element kind implements Element
	_ Element = (*Mirror)(nil)
	_ Element = (*Lens)(nil)
	_ Element = (*Screen)(nil)
	_ Element = (*Dielectric)(nil)
	_ Element = (*Dispersion)(nil)
)
