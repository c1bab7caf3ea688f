package math

// RGBFromHex converts a 0xRRGGBB color to [0,1] components.
func RGBFromHex(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
