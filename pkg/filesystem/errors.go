package filesystem

import . "github.com/weberc2/blockfs/pkg/types"

const (
	NotFoundErr         ConstError = "file not found"
	ExistsErr           ConstError = "file exists"
	InvalidNameErr      ConstError = "invalid file name"
	OutOfDescriptorsErr ConstError = "out of descriptors"
	TooManyOpenFilesErr ConstError = "too many open files"
	NotOpenErr          ConstError = "handle not open"
	InvalidOffsetErr    ConstError = "invalid offset"
	InvalidSizeErr      ConstError = "invalid size"
	InvalidCapacityErr  ConstError = "invalid descriptor capacity"
)
