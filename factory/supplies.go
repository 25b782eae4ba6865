package factory

// DefaultSupplies is the Polaris Outfitting catalog of lunar and orbital
// supply components.
func DefaultSupplies() []SupplyItem {
	return []SupplyItem{
		// Materials (priced per unit)
		{ItemName: "Carbon mesh panel", Category: "material", UnitPrice: 5.00},
		{ItemName: "Cryo-sealant cartridge", Category: "material", UnitPrice: 3.50},
		{ItemName: "Thermal insulation sheet", Category: "material", UnitPrice: 2.75},
		{ItemName: "Reflective heatfoil wrap", Category: "material", UnitPrice: 3.20},
		{ItemName: "Nano-fiber bonding strip", Category: "material", UnitPrice: 1.50},
		{ItemName: "Pressure-rated hull plate", Category: "material", UnitPrice: 7.25},
		{ItemName: "EVA-rated patch film", Category: "material", UnitPrice: 2.00},
		{ItemName: "Structural foam tile", Category: "material", UnitPrice: 1.80},
		{ItemName: "Polymer containment bag", Category: "material", UnitPrice: 0.90},
		{ItemName: "Radiation barrier mesh", Category: "material", UnitPrice: 4.40},
		{ItemName: "Aerogel sheet", Category: "material", UnitPrice: 6.00},
		{ItemName: "Solar panel film (roll)", Category: "material", UnitPrice: 3.75},
		{ItemName: "Atmospheric seal strip", Category: "material", UnitPrice: 1.10},

		// Equipment (priced per item)
		{ItemName: "Ion charge kit", Category: "equipment", UnitPrice: 25.00},
		{ItemName: "Portable power node", Category: "equipment", UnitPrice: 18.00},
		{ItemName: "Modular light fixture", Category: "equipment", UnitPrice: 8.50},
		{ItemName: "Cryo-storage unit", Category: "equipment", UnitPrice: 35.00},
		{ItemName: "Mission data tablet", Category: "equipment", UnitPrice: 22.00},
		{ItemName: "Field diagnostic scanner", Category: "equipment", UnitPrice: 42.00},
		{ItemName: "EVA helmet light", Category: "equipment", UnitPrice: 6.00},
		{ItemName: "Rapid-assemble toolset", Category: "equipment", UnitPrice: 15.00},
		{ItemName: "Biometric ID badge", Category: "equipment", UnitPrice: 2.50},
		{ItemName: "Holographic label tags", Category: "equipment", UnitPrice: 1.20},
		{ItemName: "Secure cargo case", Category: "equipment", UnitPrice: 12.00},
		{ItemName: "Compressed air canister", Category: "equipment", UnitPrice: 10.00},
		{ItemName: "Environmental sensor puck", Category: "equipment", UnitPrice: 7.00},

		// Large-format components (priced per unit)
		{ItemName: "Telescopic support beam", Category: "large_component", UnitPrice: 55.00},
		{ItemName: "Deployable antenna array", Category: "large_component", UnitPrice: 95.00},

		// Specialty gear
		{ItemName: "Hydrophobic coating kit", Category: "specialty", UnitPrice: 12.00},
		{ItemName: "Zero-gravity adhesive pack", Category: "specialty", UnitPrice: 6.50},
		{ItemName: "Multi-layer thermal blanket", Category: "specialty", UnitPrice: 14.00},
		{ItemName: "Quantum marker dye", Category: "specialty", UnitPrice: 3.80},
	}
}
