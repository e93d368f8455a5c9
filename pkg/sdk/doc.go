// Package nearby embeds the nearby marketplace engine in a Go program:
// the shop catalog on SQLite or Postgres and the geo search projection on
// Redis or in memory.
//
//	client, _ := nearby.New(ctx, nearby.WithMemory(), nearby.WithSQLite("file:shops.db"))
//	defer client.Close()
//
//	vendor := nearby.Vendor("owner-1")
//	shop, _ := client.Shops().Create(ctx, vendor, nearby.ShopInput{
//	    Name: "Fresh Mart", FullName: "Ana", Address: "1 Road, Agartala",
//	    Location: &nearby.Location{Lat: 23.83, Lon: 91.28},
//	})
//	item, _ := client.Items().Create(ctx, vendor, shop.ID, nearby.ItemInput{Name: "AA Batteries", Price: decimal.NewFromInt(40)})
//	_, _ = client.Inventory().Add(ctx, vendor, shop.ID, item.ID, 3)
//
//	hits, _ := client.Search().Nearby(ctx, "batteries", 23.83, 91.28, 5)
package nearby
