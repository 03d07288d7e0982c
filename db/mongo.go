package db

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pincode-distance/model"
)

// regionProjection 只取加载需要的字段
var regionProjection = bson.D{
	{Key: "name", Value: 1},
	{Key: "geometry_fixed", Value: 1},
	{Key: "district", Value: 1},
	{Key: "state", Value: 1},
	{Key: "pincode_category", Value: 1},
	{Key: "area", Value: 1},
	{Key: "_id", Value: 0},
}

// MongoSource 以 MongoDB 集合作为邮编区域数据源
// 每次调用单独建立连接，调用结束即断开
type MongoSource struct {
	URI        string
	Database   string
	Collection string
}

func NewMongoSource(uri, database, collection string) *MongoSource {
	return &MongoSource{URI: uri, Database: database, Collection: collection}
}

func (s *MongoSource) connect(ctx context.Context) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}
	return client, client.Database(s.Database).Collection(s.Collection), nil
}

// ListRegions 读取集合中的全部记录
func (s *MongoSource) ListRegions(ctx context.Context) ([]model.PostalRegionRecord, error) {
	client, coll, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	return listRegions(ctx, coll)
}

// UpsertRegions 按邮编整条替换 (不存在则插入)
func (s *MongoSource) UpsertRegions(ctx context.Context, records []model.PostalRegionRecord) (int, error) {
	client, coll, err := s.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	return upsertRegions(ctx, coll, records)
}

func listRegions(ctx context.Context, coll *mongo.Collection) ([]model.PostalRegionRecord, error) {
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetProjection(regionProjection))
	if err != nil {
		return nil, fmt.Errorf("查询集合 %s 失败: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	var records []model.PostalRegionRecord
	for cur.Next(ctx) {
		records = append(records, recordFromDocument(cur.Current))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("遍历集合 %s 失败: %w", coll.Name(), err)
	}
	return records, nil
}

func upsertRegions(ctx context.Context, coll *mongo.Collection, records []model.PostalRegionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		doc, err := documentFromRecord(r)
		if err != nil {
			return 0, err
		}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "name", Value: doc[0].Value}}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return 0, fmt.Errorf("写入集合 %s 失败: %w", coll.Name(), err)
	}
	return len(records), nil
}

// recordFromDocument 逐字段解析，单个字段类型不对不影响其他字段
func recordFromDocument(doc bson.Raw) model.PostalRegionRecord {
	rec := model.PostalRegionRecord{
		Name:            nameText(doc.Lookup("name")),
		District:        optionalText(doc.Lookup("district")),
		State:           optionalText(doc.Lookup("state")),
		PincodeCategory: optionalText(doc.Lookup("pincode_category")),
		Area:            optionalText(doc.Lookup("area")),
	}

	if geom, ok := doc.Lookup("geometry_fixed").DocumentOK(); ok {
		if js, err := bson.MarshalExtJSON(geom, false, false); err == nil {
			rec.Geometry = js
		}
	}
	return rec
}

// documentFromRecord 邮编能解析为整数时按 int64 存储，与原始数据集保持一致
func documentFromRecord(r model.PostalRegionRecord) (bson.D, error) {
	var name any = r.Name
	if n, err := strconv.ParseInt(r.Name, 10, 64); err == nil {
		name = n
	}

	var geometry any
	if len(r.Geometry) > 0 {
		var g bson.D
		if err := bson.UnmarshalExtJSON(r.Geometry, false, &g); err != nil {
			return nil, fmt.Errorf("邮编 %s 的几何体无法转换为 BSON: %w", r.Name, err)
		}
		geometry = g
	}

	return bson.D{
		{Key: "name", Value: name},
		{Key: "geometry_fixed", Value: geometry},
		{Key: "district", Value: r.District},
		{Key: "state", Value: r.State},
		{Key: "pincode_category", Value: r.PincodeCategory},
		{Key: "area", Value: r.Area},
	}, nil
}

// nameText 邮编字段可能是字符串、整数或浮点数
// 浮点数按截断取整，缺失或其他类型返回空串 (之后会被过滤)
func nameText(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatInt(int64(f), 10)
	default:
		return ""
	}
}

// optionalText 描述字段缺失或为 null 时为空串
func optionalText(v bson.RawValue) string {
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return ""
}
