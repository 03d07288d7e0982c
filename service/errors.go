package service

import "errors"

// 单次请求内的错误，均不影响后续请求
var (
	// ErrInvalidPincode 输入无法解析为整数
	ErrInvalidPincode = errors.New("pincode must be a number")
	// ErrNoRegions 数据源过滤后没有任何可用记录
	ErrNoRegions = errors.New("no valid pincode geometries found")
	// ErrPincodeNotFound 两个邮编之一 (或都) 不在映射中；不区分是哪一个
	ErrPincodeNotFound = errors.New("one or both pincodes not found")
	// ErrSourceUnavailable 外部数据源读写失败
	ErrSourceUnavailable = errors.New("region source unavailable")
	// ErrInvalidRadius 半径不在 (0, MaxRadiusKm] 内
	ErrInvalidRadius = errors.New("radius out of range")
	// ErrImportUnsupported 当前数据源不支持写入
	ErrImportUnsupported = errors.New("region source is read-only")
)
