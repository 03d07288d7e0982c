package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pincode-distance/algo"
	"pincode-distance/model"
)

func squareDoc(lon, lat, size float64) bson.D {
	ring := bson.A{
		bson.A{lon, lat},
		bson.A{lon + size, lat},
		bson.A{lon + size, lat + size},
		bson.A{lon, lat + size},
		bson.A{lon, lat},
	}
	return bson.D{{Key: "type", Value: "Polygon"}, {Key: "coordinates", Value: bson.A{ring}}}
}

func TestMongoSource_ListRegions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes mixed documents", func(mt *mtest.T) {
		docs := []bson.D{
			{
				{Key: "name", Value: int64(110001)},
				{Key: "geometry_fixed", Value: squareDoc(77, 28, 1)},
				{Key: "district", Value: "New Delhi"},
				{Key: "state", Value: "Delhi"},
				{Key: "pincode_category", Value: "Head Office"},
				{Key: "area", Value: "Urban"},
			},
			{
				{Key: "name", Value: "400001"},
				{Key: "geometry_fixed", Value: squareDoc(72, 18, 1)},
				{Key: "district", Value: nil},
			},
			{
				{Key: "name", Value: "abc123"},
				{Key: "geometry_fixed", Value: squareDoc(72, 18, 1)},
			},
			{
				{Key: "name", Value: 560001.0},
				{Key: "geometry_fixed", Value: bson.D{{Key: "type", Value: "Point"}, {Key: "coordinates", Value: bson.A{77.5, 12.9}}}},
			},
			{
				{Key: "name", Value: int32(600001)},
			},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "vikrant_db.pincode_DB", mtest.FirstBatch, docs...))

		records, err := listRegions(context.Background(), mt.Coll)
		require.NoError(mt, err)
		require.Len(mt, records, 5)

		assert.Equal(mt, "110001", records[0].Name)
		assert.Equal(mt, "New Delhi", records[0].District)
		assert.Equal(mt, "Head Office", records[0].PincodeCategory)
		assert.NotEmpty(mt, records[0].Geometry)

		assert.Equal(mt, "400001", records[1].Name)
		assert.Equal(mt, "", records[1].District)

		assert.Equal(mt, "560001", records[3].Name)
		assert.Equal(mt, "600001", records[4].Name)
		assert.Nil(mt, records[4].Geometry)

		// 经过加载器后只剩两条可用记录
		regions, _ := algo.ResolveAll(records)
		assert.Len(mt, regions, 2)
		assert.InDelta(mt, 28.5, regions[110001].Lat, 1e-9)
		assert.InDelta(mt, 77.5, regions[110001].Lon, 1e-9)
		assert.Contains(mt, regions, 400001)
	})

	mt.Run("query error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
			Name:    "InterruptedAtShutdown",
		}))

		_, err := listRegions(context.Background(), mt.Coll)
		assert.Error(mt, err)
	})
}

func TestMongoSource_UpsertRegions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("bulk replace", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 0},
		))

		n, err := upsertRegions(context.Background(), mt.Coll, []model.PostalRegionRecord{
			{Name: "110001", Geometry: []byte(`{"type":"Polygon","coordinates":[[[77,28],[78,28],[78,29],[77,29],[77,28]]]}`)},
			{Name: "400001"},
		})
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})

	mt.Run("nothing to write", func(mt *mtest.T) {
		n, err := upsertRegions(context.Background(), mt.Coll, nil)
		require.NoError(mt, err)
		assert.Equal(mt, 0, n)
	})
}

func TestDocumentFromRecord(t *testing.T) {
	doc, err := documentFromRecord(model.PostalRegionRecord{
		Name:     "110001",
		Geometry: []byte(`{"type":"Polygon","coordinates":[[[77,28],[78,28],[78,29],[77,28]]]}`),
		State:    "Delhi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(110001), doc[0].Value)
	assert.Equal(t, "Delhi", doc[3].Value)

	// 写入后再读回，几何体仍可解析
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	rec := recordFromDocument(raw)
	p, ok := algo.TryResolve(rec)
	require.True(t, ok)
	assert.Equal(t, 110001, p.Pincode)

	_, err = documentFromRecord(model.PostalRegionRecord{Name: "1", Geometry: []byte(`{not json`)})
	assert.Error(t, err)
}
