package usecase

import "go.uber.org/fx"

// Module wires the application services into fx graph.
var Module = fx.Provide(
	NewAddressService,
	NewCouponService,
	NewFulfillmentService,
)
